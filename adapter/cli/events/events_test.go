package events

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/taskrank/adapter/cli"
	"github.com/felixgeelhaar/taskrank/pkg/config"
)

func TestWatchCmd_RequiresBroker(t *testing.T) {
	cli.SetApp(&cli.App{Config: &config.Config{}})
	t.Cleanup(func() { cli.SetApp(nil) })

	var out bytes.Buffer
	watchCmd.SetOut(&out)
	watchCmd.SetContext(context.Background())

	err := watchCmd.RunE(watchCmd, nil)
	assert.ErrorIs(t, err, ErrNoBroker)
	assert.Empty(t, out.String())
}

func TestWatchCmd_RequiresApp(t *testing.T) {
	cli.SetApp(nil)
	watchCmd.SetContext(context.Background())

	err := watchCmd.RunE(watchCmd, nil)
	assert.ErrorIs(t, err, cli.ErrNotInitialized)
}
