// Package google turns Google service-account credentials into client
// options for the Google API clients.
//
// Credentials can be given inline (CREDENTIALS_JSON) or as a key file path
// (GOOGLE_APPLICATION_CREDENTIALS). The calendar the bot writes to must be
// shared with the service account's email address.
package google
