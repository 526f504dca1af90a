// Copyright 2026 The Sikuli-Go Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

type embeddedParams struct {
	Config string `flag:"config,c" desc:"config file"`
}

type sampleParams struct {
	embeddedParams
	JSONOutput
	Port       int           `flag:"port" desc:"port" default:"25333"`
	Timeout    time.Duration `flag:"timeout" default:"30s"`
	Ratio      float64       `flag:"ratio" default:"0.7"`
	Foreground bool          `flag:"foreground"`
	Dirs       []string      `flag:"dir" default:".,/opt"`
	Untagged   string
}

func TestBindFlags_Defaults(t *testing.T) {
	var params sampleParams
	flagSet := FlagsFromParams("sample", &params)
	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if params.Port != 25333 || params.Timeout != 30*time.Second || params.Ratio != 0.7 {
		t.Errorf("defaults = %+v", params)
	}
	if len(params.Dirs) != 2 || params.Dirs[1] != "/opt" {
		t.Errorf("Dirs = %v", params.Dirs)
	}
	if flagSet.Lookup("untagged") != nil {
		t.Error("untagged field bound")
	}
}

func TestBindFlags_ParsesEmbeddedAndShorthand(t *testing.T) {
	var params sampleParams
	flagSet := FlagsFromParams("sample", &params)
	err := flagSet.Parse([]string{"-c", "/etc/sikuli.yaml", "--json", "--port=4000", "--foreground", "--timeout", "1m"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if params.Config != "/etc/sikuli.yaml" || !params.OutputJSON || params.Port != 4000 || !params.Foreground {
		t.Errorf("params = %+v", params)
	}
	if params.Timeout != time.Minute {
		t.Errorf("Timeout = %v", params.Timeout)
	}
}

func TestBindFlags_RejectsNonStruct(t *testing.T) {
	var port int
	if err := BindFlags(&port, pflag.NewFlagSet("x", pflag.ContinueOnError)); err == nil {
		t.Fatal("BindFlags accepted *int")
	}
}

func TestBindFlags_UnsupportedType(t *testing.T) {
	var params struct {
		Weights map[string]int `flag:"weights"`
	}
	err := BindFlags(&params, pflag.NewFlagSet("x", pflag.ContinueOnError))
	if err == nil || !strings.Contains(err.Error(), "unsupported type") {
		t.Fatalf("error = %v, want unsupported type", err)
	}
}

func TestBindFlags_BadDefault(t *testing.T) {
	var params struct {
		Port int `flag:"port" default:"many"`
	}
	if err := BindFlags(&params, pflag.NewFlagSet("x", pflag.ContinueOnError)); err == nil {
		t.Fatal("bad default accepted")
	}
}
