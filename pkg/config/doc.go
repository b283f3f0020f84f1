// Package config loads application configuration from GATEHOUSE_*
// environment variables with validated defaults.
//
// Every setting has a default suitable for local development, including an
// embedded SQLite database and a well-known dev cookie secret. Production
// deployments (GATEHOUSE_ENV=production) must supply their own
// GATEHOUSE_SESSION_SECRET; Validate refuses the dev secret there, and error
// responses stop carrying internal detail.
package config
