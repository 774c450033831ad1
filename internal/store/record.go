package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"bakery-be/internal/logger"

	"go.uber.org/zap"
)

// CurrentVersion is written into every record envelope. Records without an
// envelope are version 0 and hold the bare payload.
const CurrentVersion = 1

type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

func Encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal record failed: %w", err)
	}
	return json.Marshal(envelope{Version: CurrentVersion, Data: data})
}

// Decode unmarshals raw into dst and returns the version it was written with.
func Decode(raw []byte, dst any) (int, error) {
	trimmed := bytes.TrimSpace(raw)

	if len(trimmed) > 0 && trimmed[0] == '{' {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return 0, fmt.Errorf("unmarshal record failed: %w", err)
		}
		if _, ok := probe["version"]; ok {
			var env envelope
			if err := json.Unmarshal(trimmed, &env); err != nil {
				return 0, fmt.Errorf("unmarshal record failed: %w", err)
			}
			if err := json.Unmarshal(env.Data, dst); err != nil {
				return env.Version, fmt.Errorf("unmarshal record failed: %w", err)
			}
			return env.Version, nil
		}
	}

	if err := json.Unmarshal(trimmed, dst); err != nil {
		return 0, fmt.Errorf("unmarshal record failed: %w", err)
	}
	return 0, nil
}

func Load(ctx context.Context, s Store, key string, dst any) (int, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	return Decode(raw, dst)
}

func Save(ctx context.Context, s Store, key string, v any) error {
	raw, err := Encode(v)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, raw)
}

// Persist saves v and only logs on failure. In-memory state stays
// authoritative when the backend is unavailable.
func Persist(ctx context.Context, s Store, key string, v any) {
	if err := Save(ctx, s, key, v); err != nil {
		logger.FromCtx(ctx).Warn("persist record failed",
			zap.String("layer", "store"),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// Forget deletes key and only logs on failure.
func Forget(ctx context.Context, s Store, key string) {
	if err := s.Delete(ctx, key); err != nil {
		logger.FromCtx(ctx).Warn("delete record failed",
			zap.String("layer", "store"),
			zap.String("key", key),
			zap.Error(err),
		)
	}
}
