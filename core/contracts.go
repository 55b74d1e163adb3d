package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

// MetricsRecorder receives operation counters and latency histograms. The nop
// implementation is the default; wire a real recorder from the composition
// root when one exists.
type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type NopMetricsRecorder struct{}

func (NopMetricsRecorder) IncCounter(context.Context, string, int64, map[string]string) {}

func (NopMetricsRecorder) ObserveHistogram(context.Context, string, float64, map[string]string) {}

// Persistence is the external collaborator behind the keyring: it loads the
// raw entry map once at construction and saves the full map after every
// mutation. Implementations decide the medium (JSON file, SQL, keychain).
type Persistence interface {
	Load() (map[string]string, error)
	Save(entries map[string]string) error
}

// IdentityClient is the identity-provider surface the session manager
// derives credentials through. The production implementation lives in the
// identity package; tests substitute fakes.
type IdentityClient interface {
	// Login exchanges account credentials for a session cookie value.
	Login(ctx context.Context, loginID, password string) (string, error)
	// PersonID resolves the account holder id for a session cookie.
	PersonID(ctx context.Context, session string) (string, error)
	// JWT mints a short-lived signed access token from a session cookie.
	JWT(ctx context.Context, session string) (string, error)
}
