// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package fxutil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func TestDelayedFxInvocationNoReturn(t *testing.T) {
	var got string
	fn := func(str string) {
		got = str
	}
	delayed := newDelayedFxInvocation(fn)

	app := fxtest.New(t,
		fx.Provide(func() string { return "a string" }),
		delayed.option(),
	)
	defer app.RequireStart().RequireStop()

	require.Equal(t, got, "") // not gotten yet
	require.NoError(t, delayed.call())
	require.Equal(t, got, "a string")
}

func TestDelayedFxInvocationErrorReturn(t *testing.T) {
	var got string
	fn := func(str string) error {
		got = str
		return errors.New("uhoh")
	}
	delayed := newDelayedFxInvocation(fn)

	app := fxtest.New(t,
		fx.Provide(func() string { return "a string" }),
		delayed.option(),
	)
	defer app.RequireStart().RequireStop()

	require.Equal(t, got, "")
	require.ErrorContains(t, delayed.call(), "uhoh")
	require.Equal(t, got, "a string")
}

func TestOneShot(t *testing.T) {
	started := false
	err := OneShot(func(n int, s string) {
		require.True(t, started)
		require.Equal(t, 42, n)
		require.Equal(t, "probe", s)
	},
		fx.Supply(42, "probe"),
		fx.Invoke(func(lc fx.Lifecycle) {
			lc.Append(fx.Hook{OnStart: func(context.Context) error {
				started = true
				return nil
			}})
		}),
	)
	require.NoError(t, err)
}

func TestOneShotError(t *testing.T) {
	err := OneShot(func(int) error { return errors.New("failed") }, fx.Supply(1))
	require.EqualError(t, err, "failed")
}

func TestOneShotMissingDependency(t *testing.T) {
	err := OneShot(func(string) {})
	require.Error(t, err)
}
