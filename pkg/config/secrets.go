package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// secretsFile mirrors the operator-managed secrets document. Either the flat
// DATABASE_URL key or the nested postgres.url key may carry the DSN.
type secretsFile struct {
	DatabaseURL string `yaml:"DATABASE_URL"`
	Postgres    struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
}

// dsnFromSecrets is best effort: an unreadable or malformed file yields "".
func dsnFromSecrets(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var doc secretsFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return ""
	}
	if v := strings.TrimSpace(doc.DatabaseURL); v != "" {
		return v
	}
	return strings.TrimSpace(doc.Postgres.URL)
}
