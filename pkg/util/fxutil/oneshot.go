// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

// Package fxutil runs short-lived fx applications
package fxutil

import (
	"context"
	"reflect"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// OneShot runs the given function in an fx.App using the supplied options.
// The function's arguments are supplied by fx and are populated once the app
// has started. The app is stopped once the function returns.
//
// The function may return an error, which is returned by OneShot.
func OneShot(oneShotFunc interface{}, opts ...fx.Option) error {
	if fxAppTestOverride != nil {
		return fxAppTestOverride(oneShotFunc, opts)
	}

	delayed := newDelayedFxInvocation(oneShotFunc)
	opts = append(opts, delayed.option(), fx.NopLogger)
	app := fx.New(opts...)

	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	var errs *multierror.Error
	if err := delayed.call(); err != nil {
		errs = multierror.Append(errs, err)
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		errs = multierror.Append(errs, errors.Wrap(err, "couldn't stop the app"))
	}

	if errs != nil && len(errs.Errors) == 1 {
		return errs.Errors[0]
	}
	return errs.ErrorOrNil()
}

// delayedFxInvocation captures the arguments fx resolves for fn so that fn
// can be called after the app has started
type delayedFxInvocation struct {
	fn   interface{}
	args []reflect.Value
}

func newDelayedFxInvocation(fn interface{}) *delayedFxInvocation {
	t := reflect.TypeOf(fn)
	if t == nil || t.Kind() != reflect.Func {
		panic("delayedFxInvocation requires a function")
	}
	return &delayedFxInvocation{fn: fn}
}

// option returns an fx.Option invoking a function with the same parameters
// as fn, which records its arguments
func (d *delayedFxInvocation) option() fx.Option {
	t := reflect.TypeOf(d.fn)
	in := make([]reflect.Type, t.NumIn())
	for i := range in {
		in[i] = t.In(i)
	}
	capture := reflect.MakeFunc(reflect.FuncOf(in, nil, t.IsVariadic()), func(args []reflect.Value) []reflect.Value {
		d.args = args
		return nil
	})
	return fx.Invoke(capture.Interface())
}

// call calls fn with the captured arguments. If fn's last result is an
// error, it is returned.
func (d *delayedFxInvocation) call() error {
	v := reflect.ValueOf(d.fn)
	var res []reflect.Value
	if v.Type().IsVariadic() {
		res = v.CallSlice(d.args)
	} else {
		res = v.Call(d.args)
	}

	if len(res) == 0 {
		return nil
	}
	last := res[len(res)-1]
	if last.Type() == reflect.TypeOf((*error)(nil)).Elem() && !last.IsNil() {
		return last.Interface().(error)
	}
	return nil
}
