package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// loadDotEnv loads KEY=VALUE pairs from a dotenv file into the process
// environment and returns the keys it set. A missing file is not an error.
//
// Rules:
// - Empty lines and lines starting with # are ignored.
// - "export KEY=VALUE" is supported.
// - Quoted values keep everything between the quotes; unquoted values drop a
//   trailing " # comment".
// - Existing environment variables are not overwritten.
// - Lines without '=' are reported with their line number.
func loadDotEnv(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var set []string
	lineNo := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

		k, v, ok := strings.Cut(line, "=")
		if !ok {
			return set, fmt.Errorf("%s:%d: expected KEY=VALUE", path, lineNo)
		}
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}

		if os.Getenv(k) != "" {
			continue
		}
		if err := os.Setenv(k, dotenvValue(strings.TrimSpace(v))); err != nil {
			return set, fmt.Errorf("set %s: %w", k, err)
		}
		set = append(set, k)
	}
	if err := sc.Err(); err != nil {
		return set, err
	}
	return set, nil
}

func dotenvValue(v string) string {
	if len(v) >= 2 {
		q := v[0]
		if (q == '"' || q == '\'') && v[len(v)-1] == q {
			return v[1 : len(v)-1]
		}
	}
	if i := strings.Index(v, " #"); i >= 0 {
		v = strings.TrimSpace(v[:i])
	}
	return v
}
