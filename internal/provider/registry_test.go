package provider

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// MockProvider is a test provider implementation
type MockProvider struct {
	name         string
	capabilities ProviderCapabilities
	fetchFunc    func(context.Context, FetchRequest) (*Metadata, error)
	configured   bool
	closed       bool
}

func (m *MockProvider) Name() string        { return m.name }
func (m *MockProvider) Description() string { return "Mock provider for testing" }
func (m *MockProvider) Capabilities() ProviderCapabilities {
	return m.capabilities
}
func (m *MockProvider) Configure(config map[string]interface{}) error {
	m.configured = true
	return nil
}
func (m *MockProvider) Fetch(ctx context.Context, req FetchRequest) (*Metadata, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, req)
	}
	return nil, nil
}
func (m *MockProvider) Close() error {
	m.closed = true
	return nil
}

func newMock(name string) *MockProvider {
	return &MockProvider{
		name: name,
		capabilities: ProviderCapabilities{
			MediaTypes: []MediaType{MediaTypeMovie},
		},
	}
}

func TestRegistry_Register(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Register("test", newMock("test"), 100); err != nil {
		t.Errorf("Register() error = %v, want nil", err)
	}

	if err := registry.Register("test", newMock("test"), 100); err == nil {
		t.Error("Register() expected error for duplicate, got nil")
	}
}

func TestRegistry_RegisterRejectsInvalidCapabilities(t *testing.T) {
	registry := NewRegistry()
	mock := &MockProvider{name: "bad"}

	if err := registry.Register("bad", mock, 1); err == nil {
		t.Error("Register() expected error for provider without media types, got nil")
	}
}

func TestRegistry_List(t *testing.T) {
	registry := NewRegistry()
	if got := registry.List(); len(got) != 0 {
		t.Errorf("List() on empty registry = %v, want none", got)
	}

	registry.Register("low", newMock("low"), 50)
	registry.Register("high", newMock("high"), 100)
	registry.Register("also-low", newMock("also-low"), 50)

	var got []string
	for _, p := range registry.List() {
		got = append(got, p.Name())
	}

	want := []string{"high", "also-low", "low"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_EnableRequiresConfigForAuth(t *testing.T) {
	registry := NewRegistry()
	mock := newMock("auth")
	mock.capabilities.RequiresAuth = true
	registry.Register("auth", mock, 100)

	if err := registry.Enable("auth"); err == nil {
		t.Fatal("Enable() expected error for unconfigured auth provider, got nil")
	}

	if err := registry.Configure("auth", map[string]interface{}{"api_key": "k"}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	if !mock.configured {
		t.Error("provider not configured")
	}
	if err := registry.Enable("auth"); err != nil {
		t.Fatalf("Enable() error = %v, want nil", err)
	}

	p, err := registry.Enabled("auth")
	if err != nil {
		t.Fatalf("Enabled() error = %v", err)
	}
	if p != mock {
		t.Errorf("Enabled() = %v, want mock", p)
	}
}

func TestRegistry_EnabledRejectsDisabled(t *testing.T) {
	registry := NewRegistry()
	registry.Register("test", newMock("test"), 100)

	if _, err := registry.Enabled("test"); err == nil {
		t.Error("Enabled() expected error for disabled provider, got nil")
	}
	if _, err := registry.Enabled("missing"); err == nil {
		t.Error("Enabled() expected error for missing provider, got nil")
	}
	if err := registry.Configure("missing", nil); err == nil {
		t.Error("Configure() expected error for missing provider, got nil")
	}
}

func TestValidateCapabilities(t *testing.T) {
	if err := ValidateCapabilities(ProviderCapabilities{MediaTypes: []MediaType{MediaTypeMovie}}); err != nil {
		t.Errorf("ValidateCapabilities() error = %v, want nil", err)
	}

	if err := ValidateCapabilities(ProviderCapabilities{}); err == nil {
		t.Error("ValidateCapabilities() expected error for no media types, got nil")
	}

	if err := ValidateCapabilities(ProviderCapabilities{MediaTypes: []MediaType{"show"}}); err == nil {
		t.Error("ValidateCapabilities() expected error for non-movie provider, got nil")
	}
}

func TestProviderError(t *testing.T) {
	err := &ProviderError{
		Provider: "tmdb",
		Code:     "RATE_LIMITED",
		Message:  "API rate limit exceeded",
	}

	if !cmp.Equal(err.Error(), "API rate limit exceeded") {
		t.Errorf("Error() = %s, want 'API rate limit exceeded'", err.Error())
	}
	if IsNotFound(err) {
		t.Error("IsNotFound() = true for RATE_LIMITED, want false")
	}
	if !IsNotFound(&ProviderError{Code: "NOT_FOUND"}) {
		t.Error("IsNotFound() = false for NOT_FOUND, want true")
	}
}
