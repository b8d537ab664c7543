//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"log-cleaner/cmd"
	"log-cleaner/infrastructure/config"

	"github.com/cucumber/godog"
)

type configCrudContext struct {
	tempDir    string
	configPath string
	config     *config.Config
	output     *bytes.Buffer
	err        error
}

var SharedConfigCrudContext = &configCrudContext{}

func InitializeConfigCrudScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedConfigCrudContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "config-crud-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.configPath = filepath.Join(tempDir, "config.yaml")
		testCtx.output = &bytes.Buffer{}
		testCtx.err = nil
		testCtx.config = nil
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		return c, nil
	})

	ctx.Step(`^a config file exists with initial data$`, testCtx.aConfigFileExistsWithInitialData)
	ctx.Step(`^I run config add recipient with key "([^"]*)" name "([^"]*)" and email "([^"]*)"$`, testCtx.iRunConfigAddRecipient)
	ctx.Step(`^recipient "([^"]*)" exists with name "([^"]*)" and email "([^"]*)"$`, testCtx.recipientExistsWithNameAndEmail)
	ctx.Step(`^I run config list recipients$`, testCtx.iRunConfigListRecipients)
	ctx.Step(`^I run config remove recipient "([^"]*)"$`, testCtx.iRunConfigRemoveRecipient)
	ctx.Step(`^I run config update recipient "([^"]*)" with email "([^"]*)"$`, testCtx.iRunConfigUpdateRecipientEmail)
	ctx.Step(`^I run config set-default recipient "([^"]*)"$`, testCtx.iRunConfigSetDefaultRecipient)
	ctx.Step(`^the config should contain recipient "([^"]*)" with name "([^"]*)" and email "([^"]*)"$`, testCtx.theConfigShouldContainRecipient)
	ctx.Step(`^the config should not contain recipient "([^"]*)"$`, testCtx.theConfigShouldNotContainRecipient)
	ctx.Step(`^the default recipient should be "([^"]*)"$`, testCtx.theDefaultRecipientShouldBe)

	ctx.Step(`^the command should succeed$`, testCtx.theCommandShouldSucceed)
	ctx.Step(`^the command should fail with "([^"]*)"$`, testCtx.theCommandShouldFailWith)
	ctx.Step(`^the command output should contain "([^"]*)"$`, testCtx.theOutputShouldContain)
}

func (c *configCrudContext) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.config = cfg
	return nil
}

func (c *configCrudContext) aConfigFileExistsWithInitialData() error {
	c.config = &config.Config{
		Cleanup: config.CleanupConfig{
			Directory:  "/var/log/myapp",
			MaxAgeDays: 30,
			MaxSizeMB:  100,
		},
		Email: config.EmailConfig{
			FromAddress: "cleaner@example.com",
			Recipients:  make(map[string]config.RecipientConfig),
		},
	}
	return config.Save(c.config, c.configPath)
}

func (c *configCrudContext) iRunConfigAddRecipient(key, name, email string) error {
	if err := c.loadConfig(); err != nil {
		return err
	}
	c.output.Reset()
	c.err = cmd.RunConfigAddWithDependencies(c.config, c.configPath, "recipient", key, name, email, c.output)
	return nil
}

func (c *configCrudContext) recipientExistsWithNameAndEmail(key, name, email string) error {
	if err := c.loadConfig(); err != nil {
		return err
	}
	if c.config.Email.Recipients == nil {
		c.config.Email.Recipients = make(map[string]config.RecipientConfig)
	}
	c.config.Email.Recipients[key] = config.RecipientConfig{Name: name, Address: email}
	return config.Save(c.config, c.configPath)
}

func (c *configCrudContext) iRunConfigListRecipients() error {
	if err := c.loadConfig(); err != nil {
		return err
	}
	c.output.Reset()
	c.err = cmd.RunConfigListWithDependencies(c.config, c.configPath, "recipients", c.output)
	return nil
}

func (c *configCrudContext) iRunConfigRemoveRecipient(key string) error {
	if err := c.loadConfig(); err != nil {
		return err
	}
	c.output.Reset()
	c.err = cmd.RunConfigRemoveWithDependencies(c.config, c.configPath, "recipient", key, c.output)
	return nil
}

func (c *configCrudContext) iRunConfigUpdateRecipientEmail(key, email string) error {
	if err := c.loadConfig(); err != nil {
		return err
	}
	c.output.Reset()
	c.err = cmd.RunConfigUpdateWithDependencies(c.config, c.configPath, "recipient", key, "", email, c.output)
	return nil
}

func (c *configCrudContext) iRunConfigSetDefaultRecipient(key string) error {
	if err := c.loadConfig(); err != nil {
		return err
	}
	c.output.Reset()
	c.err = cmd.RunConfigSetDefaultWithDependencies(c.config, c.configPath, "recipient", key, c.output)
	return nil
}

func (c *configCrudContext) theConfigShouldContainRecipient(key, name, email string) error {
	if err := c.loadConfig(); err != nil {
		return err
	}
	rc, ok := c.config.Email.Recipients[key]
	if !ok {
		return fmt.Errorf("recipient %q not found in config", key)
	}
	if rc.Name != name || rc.Address != email {
		return fmt.Errorf("recipient %q = %s <%s>, want %s <%s>", key, rc.Name, rc.Address, name, email)
	}
	return nil
}

func (c *configCrudContext) theConfigShouldNotContainRecipient(key string) error {
	if err := c.loadConfig(); err != nil {
		return err
	}
	if _, ok := c.config.Email.Recipients[key]; ok {
		return fmt.Errorf("recipient %q should not exist", key)
	}
	return nil
}

func (c *configCrudContext) theDefaultRecipientShouldBe(key string) error {
	if err := c.loadConfig(); err != nil {
		return err
	}
	if c.config.Email.Recipient != key {
		return fmt.Errorf("default recipient = %q, want %q", c.config.Email.Recipient, key)
	}
	return nil
}

func (c *configCrudContext) theCommandShouldSucceed() error {
	if c.err != nil {
		return fmt.Errorf("expected success, got: %w", c.err)
	}
	return nil
}

func (c *configCrudContext) theCommandShouldFailWith(expected string) error {
	if c.err == nil {
		return fmt.Errorf("expected error containing %q, got success", expected)
	}
	if !strings.Contains(c.err.Error(), expected) {
		return fmt.Errorf("expected error containing %q, got: %v", expected, c.err)
	}
	return nil
}

func (c *configCrudContext) theOutputShouldContain(expected string) error {
	if !strings.Contains(c.output.String(), expected) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", expected, c.output.String())
	}
	return nil
}
