package main

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"

	"github.com/heroiclabs/nakama-common/runtime"
)

type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

// fakeInitializer records registrations; unused Initializer methods are left to the embedded nil interface.
type fakeInitializer struct {
	runtime.Initializer
	rpcs     []string
	matches  []string
	matchErr error
}

func (f *fakeInitializer) RegisterRpc(id string, fn func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error)) error {
	f.rpcs = append(f.rpcs, id)
	return nil
}

func (f *fakeInitializer) RegisterMatch(name string, fn func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error)) error {
	if f.matchErr != nil {
		return f.matchErr
	}
	f.matches = append(f.matches, name)
	return nil
}

func TestInitModuleRegistersMatchAndRPC(t *testing.T) {
	initializer := &fakeInitializer{}
	if err := InitModule(context.Background(), noopLogger{}, nil, nil, initializer); err != nil {
		t.Fatalf("InitModule: %v", err)
	}
	if !reflect.DeepEqual(initializer.rpcs, []string{"quick_match"}) {
		t.Fatalf("rpcs = %v, want [quick_match]", initializer.rpcs)
	}
	if !reflect.DeepEqual(initializer.matches, []string{"cribbage_match"}) {
		t.Fatalf("matches = %v, want [cribbage_match]", initializer.matches)
	}
}

func TestInitModuleReturnsRegistrationError(t *testing.T) {
	wantErr := errors.New("match name taken")
	initializer := &fakeInitializer{matchErr: wantErr}
	if err := InitModule(context.Background(), noopLogger{}, nil, nil, initializer); !errors.Is(err, wantErr) {
		t.Fatalf("InitModule error = %v, want %v", err, wantErr)
	}
}
