package cli

import (
	"fmt"

	"github.com/pluqqy/tpmedit/pkg/files"
	"github.com/pluqqy/tpmedit/pkg/formmap"
	"github.com/pluqqy/tpmedit/pkg/jsondoc"
	"github.com/pluqqy/tpmedit/pkg/models"
)

// CommandContext manages settings and config loading shared by commands
type CommandContext struct {
	SettingsPath string
	ConfigPath   string
	Settings     *models.Settings
	validated    bool
}

// NewCommandContext creates a new command context. configOverride, when not
// empty, replaces the config path from the settings file.
func NewCommandContext(configOverride string) (*CommandContext, error) {
	ctx := &CommandContext{SettingsPath: files.SettingsFile}

	settings, err := files.ReadSettings()
	if err != nil {
		return nil, err
	}
	ctx.Settings = settings

	ctx.ConfigPath = settings.ConfigPath
	if configOverride != "" {
		ctx.ConfigPath = configOverride
	}
	if ctx.ConfigPath == "" {
		ctx.ConfigPath = files.DefaultConfigFile
	}

	return ctx, nil
}

// ValidateConfig ensures the config file exists
func (c *CommandContext) ValidateConfig() error {
	if c.validated {
		return nil
	}

	if err := ValidateFilePath(c.ConfigPath); err != nil {
		return fmt.Errorf("no config file to edit: %w. Use --config to point at one", err)
	}

	c.validated = true
	return nil
}

// LoadDocument reads and parses the config file
func (c *CommandContext) LoadDocument() (*jsondoc.Object, error) {
	if err := c.ValidateConfig(); err != nil {
		return nil, err
	}
	return files.ReadConfig(c.ConfigPath)
}

// LoadForm reads the config file and flattens it into a form
func (c *CommandContext) LoadForm() (*jsondoc.Object, *formmap.Form, error) {
	doc, err := c.LoadDocument()
	if err != nil {
		return nil, nil, err
	}
	return doc, formmap.NewForm(doc, c.Settings.Number.Bounds()), nil
}

// SectionKeys returns the document's sections in display order
func (c *CommandContext) SectionKeys(doc *jsondoc.Object) []string {
	return c.Settings.OrderSections(doc.Keys())
}
