package configparser

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrNoFilePath = errors.New("no file path provided")

// LoadYamlFile reads a YAML file and exports its leaves as environment
// variables: nested keys are joined with "_" and upper-cased, so
//
//	fare:
//	  surge_cache_ttl: 1m
//
// becomes FARE_SURGE_CACHE_TTL=1m. Values of the form ${VAR:-default} are
// expanded. Variables that are already set win over the file.
func LoadYamlFile(filepath string) error {
	if filepath == "" {
		return ErrNoFilePath
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("could not read YAML file: %w", err)
	}

	vars, err := FlattenYaml(data)
	if err != nil {
		return fmt.Errorf("could not parse YAML file %s: %w", filepath, err)
	}

	for key, value := range vars {
		if os.Getenv(key) != "" {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("could not set env var %s: %w", key, err)
		}
	}
	return nil
}

// FlattenYaml turns a YAML document into env-style KEY=value pairs.
// Null values and empty sections are skipped; lists are joined with ",".
func FlattenYaml(data []byte) (map[string]string, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	out := make(map[string]string)
	if err := flatten("", doc, out); err != nil {
		return nil, err
	}
	return out, nil
}

func flatten(prefix string, node any, out map[string]string) error {
	switch v := node.(type) {
	case nil:
		return nil
	case map[string]any:
		for k, child := range v {
			if err := flatten(joinKey(prefix, k), child, out); err != nil {
				return err
			}
		}
		return nil
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			s, err := scalar(prefix, item)
			if err != nil {
				return err
			}
			items = append(items, s)
		}
		out[prefix] = strings.Join(items, ",")
		return nil
	default:
		s, err := scalar(prefix, v)
		if err != nil {
			return err
		}
		out[prefix] = expand(s)
		return nil
	}
}

func scalar(key string, v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case map[string]any, []any:
		return "", fmt.Errorf("%s: nested value in a list", key)
	default:
		return fmt.Sprint(t), nil
	}
}

func joinKey(prefix, key string) string {
	key = strings.ToUpper(strings.TrimSpace(key))
	if prefix == "" {
		return key
	}
	return prefix + "_" + key
}

// expand resolves a whole-value ${VAR:-default} reference.
func expand(value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}
	name, def, ok := strings.Cut(value[2:len(value)-1], ":-")
	if !ok {
		return os.Getenv(strings.TrimSpace(value[2 : len(value)-1]))
	}
	if env := os.Getenv(strings.TrimSpace(name)); env != "" {
		return env
	}
	return strings.TrimSpace(def)
}
