package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Stock Watch Agent Configuration

[storage]
# Path to the sqlite database (default: <config dir>/stockwatch.db)
db_path = ""

[quotes]
# Quote provider endpoint
base_url = "https://query1.finance.yahoo.com"
# Request timeout
timeout = "10s"
# Fetch attempts per symbol
max_attempts = 3

[llm]
# Model used to parse note text
model = "gpt-4o-mini"
# OpenAI-compatible API endpoint (empty = api.openai.com)
base_url = ""

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"

[notifications.webhook]
enabled = false
url = ""
`

const credentialsTemplate = `# Stock Watch Agent Credentials
# Keep this file private. Environment variables override these values.

[openai]
api_key = ""
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}
	return nil
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "credentials.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	// Credentials are secrets; restrict permissions.
	if err := os.WriteFile(path, []byte(credentialsTemplate), 0600); err != nil {
		return fmt.Errorf("writing credentials template: %w", err)
	}
	return nil
}
