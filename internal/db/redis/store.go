// Package redis implements the cache store on Redis or Valkey via rueidis.
// Both servers speak the same protocol for every command used here.
package redis

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/talentdex/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

const defaultClientName = "talentdex"

// Config holds connection parameters.
type Config struct {
	Addrs       []string
	Username    string
	Password    string
	DB          int
	DialTimeout time.Duration
	// ClientName is reported by CLIENT LIST. Default: "talentdex".
	ClientName string
}

// Store implements db.Store over a rueidis client.
type Store struct {
	client rueidis.Client
}

// NewStore connects to the first reachable address. Client-side caching
// is off: entries are small and written rarely.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, errors.New("addrs is required")
	}
	name := cfg.ClientName
	if name == "" {
		name = defaultClientName
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		ClientName:   name,
		Dialer:       net.Dialer{Timeout: cfg.DialTimeout},
		DisableCache: true,
	})
	if err != nil {
		return nil, &db.Error{Op: db.OpConnect, Err: err}
	}
	return &Store{client: client}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return wrap(db.OpPing, s.client.Do(ctx, s.client.B().Ping().Build()).Error())
}

// Close shuts down the client.
func (s *Store) Close() { s.client.Close() }

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.WaitForReady(ctx, s, timeout)
}

// Get returns db.ErrKeyNotFound for a missing key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Do(ctx, s.client.B().Get().Key(key).Build()).AsBytes()
	if rueidis.IsRedisNil(err) {
		return nil, db.ErrKeyNotFound
	}
	if err != nil {
		return nil, wrap(db.OpGet, err)
	}
	return data, nil
}

// Set stores value without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	cmd := s.client.B().Set().Key(key).Value(rueidis.BinaryString(value)).Build()
	return wrap(db.OpSet, s.client.Do(ctx, cmd).Error())
}

// SetWithTTL stores value with an expiry. Whole seconds use EX, anything
// finer uses PX. A non-positive ttl stores without expiry.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return s.Set(ctx, key, value)
	}
	set := s.client.B().Set().Key(key).Value(rueidis.BinaryString(value))
	var cmd rueidis.Completed
	if ttl%time.Second == 0 {
		cmd = set.Ex(ttl).Build()
	} else {
		cmd = set.Px(ttl).Build()
	}
	return wrap(db.OpSet, s.client.Do(ctx, cmd).Error())
}

// Del removes a key. Deleting a missing key is not an error.
func (s *Store) Del(ctx context.Context, key string) error {
	return wrap(db.OpDel, s.client.Do(ctx, s.client.B().Del().Key(key).Build()).Error())
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &db.Error{Op: op, Err: err}
}
