// Package config loads the bot configuration.
//
// Values are resolved from defaults, an optional YAML file, and the
// environment, with the environment winning. A .env file is merged into the
// environment first by LoadEnvFiles. Example file:
//
//	line:
//	  channel_secret: ...
//	  channel_access_token: ...
//	calendar:
//	  id: team@group.calendar.google.com
//	  credentials_file: /etc/calbot/service-account.json
//	http:
//	  addr: ":8080"
//	digest:
//	  schedule: "0 8 * * *"
//	  to: [Uxxxxxxxx]
package config
