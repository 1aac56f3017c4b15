package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCmdRegistersSubcommands(t *testing.T) {
	root := GetRootCmd()

	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["start"])
	assert.True(t, names["migrate"])
	assert.True(t, names["config"])
	assert.True(t, names["version"])
}

func TestMigrateCmdHasUpSubcommand(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range migrateCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["up"])
}

func TestConfigCmdHasValidateAndSchemaSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range configCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["validate"])
	assert.True(t, names["schema"])
}
