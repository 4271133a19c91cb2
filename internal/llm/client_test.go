package llm

import (
	"context"
	"testing"
)

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(context.Background(), "", "", 0, nil); err == nil {
		t.Error("NewClient() error = nil without an API key")
	}
}

func TestNewClientDefaultsModel(t *testing.T) {
	c, err := NewClient(context.Background(), "test-key", "", 0, nil)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if c.Model() != DefaultModel {
		t.Errorf("Model() = %q, want %q", c.Model(), DefaultModel)
	}
}
