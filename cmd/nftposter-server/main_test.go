package main

import (
	"testing"

	"go.uber.org/fx"
)

func TestOpts(t *testing.T) {
	if err := fx.ValidateApp(opts("config/base.yaml")); err != nil {
		t.Fatalf("invalid fx graph: %v", err)
	}
}
