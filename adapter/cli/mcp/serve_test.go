package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/taskrank/adapter/cli"
)

func TestServeCmd_RequiresApp(t *testing.T) {
	cli.SetApp(nil)
	serveCmd.SetContext(context.Background())

	err := serveCmd.RunE(serveCmd, nil)
	assert.ErrorIs(t, err, cli.ErrNotInitialized)
}

func TestCmd_HasServe(t *testing.T) {
	found := false
	for _, c := range Cmd.Commands() {
		if c.Name() == "serve" {
			found = true
		}
	}
	assert.True(t, found)
}
