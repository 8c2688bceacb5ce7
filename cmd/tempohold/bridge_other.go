//go:build !linux

package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tempohold/tempohold-go/pkg/button"
	"github.com/tempohold/tempohold-go/pkg/config"
	"github.com/tempohold/tempohold-go/pkg/host"
)

type bridge struct{}

func openBridge(*config.File, *slog.Logger) (*bridge, error) {
	return nil, errors.New("the evdev bridge is only available on Linux")
}

func (*bridge) Sinks() []button.OutputSink { return nil }

func (*bridge) Run(context.Context, *host.Board) error { return nil }

func (*bridge) Close() {}
