package config

import (
	"fmt"
	"os"
)

const starterConfig = `# sitio configuration
server:
  port: 42069
  dev: false
  static_dir: ./static

site:
  discord_url: https://discord.gg/your-discord-invite
  github_url: https://github.com/escuadron-404/

github:
  handle: escuadron-404
  # token: ${GITHUB_TOKEN}
  per_page: 3
  refresh: 1h

contact:
  # turnstile_site_key: ${TURNSTILE_SITE_KEY}
  # turnstile_secret: ${TURNSTILE_SECRET_KEY}
  # discord_webhook_url: ${DISCORD_WEBHOOK_URL}
  # nats_url: nats://localhost:4222
  nats_subject: site.contact

journal:
  # path: ./sitio.db

auth:
  provider: disabled

metrics:
  enabled: false
`

// Init writes a starter configuration file. Existing files are preserved
// unless force is set.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", configPath)
	}
	if err := os.WriteFile(configPath, []byte(starterConfig), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
