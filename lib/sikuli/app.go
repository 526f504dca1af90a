// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package sikuli

import (
	"context"
	"errors"
	"time"
)

// App is a desktop application, by name or by executable path.
type App struct {
	client *Client
	ref    ObjectRef
}

// NewApp refers to the application called name without starting it.
func NewApp(ctx context.Context, c *Client, name string) (*App, error) {
	if name == "" {
		return nil, errors.New("application name is empty")
	}
	ref, err := c.construct(ctx, classApp, name)
	if err != nil {
		return nil, err
	}
	return &App{client: c, ref: ref}, nil
}

// OpenApp starts the application called name and returns it, or nil if
// the backend could not start it.
func OpenApp(ctx context.Context, c *Client, name string) (*App, error) {
	if name == "" {
		return nil, errors.New("application name is empty")
	}
	result, err := c.callStatic(ctx, classApp, "open", name)
	if err != nil {
		return nil, err
	}
	ref, err := asRef(result)
	if err != nil || ref == "" {
		return nil, err
	}
	return &App{client: c, ref: ref}, nil
}

func (a *App) RemoteRef() ObjectRef { return a.ref }

func (a *App) self(ctx context.Context, method string, args ...any) (*App, error) {
	if _, err := a.client.call(ctx, a, method, args...); err != nil {
		return nil, err
	}
	return a, nil
}

// Open starts the application, waiting up to wait for it to come up.
// Zero does not wait.
func (a *App) Open(ctx context.Context, wait time.Duration) (*App, error) {
	if wait <= 0 {
		return a.self(ctx, "open")
	}
	return a.self(ctx, "open", int(wait.Round(time.Second)/time.Second))
}

func (a *App) Close(ctx context.Context) (bool, error) { return boolCall(ctx, a.client, a, "close") }

// Focus brings the application's window to the front.
func (a *App) Focus(ctx context.Context) (*App, error) { return a.self(ctx, "focus") }

// SetUsing sets the command-line parameters used when opening.
func (a *App) SetUsing(ctx context.Context, parameters string) (*App, error) {
	return a.self(ctx, "setUsing", parameters)
}

// SetWorkDir sets the working directory used when opening.
func (a *App) SetWorkDir(ctx context.Context, dir string) (*App, error) {
	return a.self(ctx, "setWorkDir", dir)
}

func (a *App) IsValid(ctx context.Context) (bool, error) {
	return boolCall(ctx, a.client, a, "isValid")
}

// IsRunning reports whether the application runs, waiting up to wait
// seconds for it. Zero checks once.
func (a *App) IsRunning(ctx context.Context, wait time.Duration) (bool, error) {
	if wait <= 0 {
		return boolCall(ctx, a.client, a, "isRunning")
	}
	return boolCall(ctx, a.client, a, "isRunning", int(wait.Round(time.Second)/time.Second))
}

func (a *App) HasWindow(ctx context.Context) (bool, error) {
	return boolCall(ctx, a.client, a, "hasWindow")
}

// FocusedWindow returns the application's front window, or nil when it
// has none.
func (a *App) FocusedWindow(ctx context.Context) (*Region, error) {
	ref, err := refCall(ctx, a.client, a, "focusedWindow")
	if err != nil || ref == "" {
		return nil, err
	}
	return newRegion(a.client, ref), nil
}

func (a *App) Title(ctx context.Context) (string, error) {
	return stringCall(ctx, a.client, a, "getTitle")
}

func (a *App) PID(ctx context.Context) (int, error) { return intCall(ctx, a.client, a, "getPID") }

func (a *App) Name(ctx context.Context) (string, error) {
	return stringCall(ctx, a.client, a, "getName")
}
