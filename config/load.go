package config

import (
	"context"
	"fmt"
	"os"
	"reflect"

	"gopkg.in/yaml.v3"

	"github.com/opsknowledge/retrieval-core/secret"
)

// Load reads path as YAML into Defaults(), then resolves every string leaf
// through resolver: environment expansion via secret.ExpandEnvStrict, then
// secretref: resolution via secret.Resolver, exactly the teacher's
// expand-then-resolve order in secret/resolver.go's ResolveValue.
func Load(ctx context.Context, path string, resolver *secret.Resolver) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := resolveStrings(ctx, reflect.ValueOf(&cfg).Elem(), resolver); err != nil {
		return Config{}, fmt.Errorf("config: resolve %s: %w", path, err)
	}

	return cfg, nil
}

// resolveStrings walks v (a struct, slice, map, or pointer reached while
// walking the Config tree) and resolves every settable string field or map
// value in place. Sources[].Config is a map[string]any and is the reason
// this is a generic walker rather than a handful of named-field calls:
// per-adapter config blocks are opaque to this package.
func resolveStrings(ctx context.Context, v reflect.Value, resolver *secret.Resolver) error {
	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return nil
		}
		return resolveStrings(ctx, v.Elem(), resolver)
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			field := v.Field(i)
			if !field.CanSet() {
				continue
			}
			if err := resolveStrings(ctx, field, resolver); err != nil {
				return err
			}
		}
		return nil
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := resolveStrings(ctx, v.Index(i), resolver); err != nil {
				return err
			}
		}
		return nil
	case reflect.Map:
		for _, key := range v.MapKeys() {
			val := v.MapIndex(key)
			resolved, err := resolveMapValue(ctx, val, resolver)
			if err != nil {
				return err
			}
			if resolved.IsValid() {
				v.SetMapIndex(key, resolved)
			}
		}
		return nil
	case reflect.String:
		resolved, err := resolver.ResolveValue(ctx, v.String())
		if err != nil {
			return err
		}
		v.SetString(resolved)
		return nil
	case reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return resolveStrings(ctx, v.Elem(), resolver)
	default:
		return nil
	}
}

// resolveMapValue resolves a map[string]any entry, returning a settable
// replacement value for string entries and leaving other kinds (nested
// maps, numbers, bools) untouched, since map values are not addressable
// and per-adapter config blocks rarely nest a secret more than one level
// deep.
func resolveMapValue(ctx context.Context, v reflect.Value, resolver *secret.Resolver) (reflect.Value, error) {
	if v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if v.Kind() == reflect.String {
		resolved, err := resolver.ResolveValue(ctx, v.String())
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(resolved), nil
	}
	return reflect.Value{}, nil
}
