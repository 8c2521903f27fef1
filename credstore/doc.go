// Package credstore provides CredentialStore backends for session records:
// an in-process map, Redis and an embedded Badger database. Any backend can
// be wrapped so records are sealed at rest.
//
// # Configuration
//
//	credentials:
//	  driver: "badger"
//	  badger:
//	    dir: "/home/me/.config/authclient/credentials"
//	  encryption:
//	    enabled: true
//	    key: "${AUTHCLIENT_CREDENTIALS_ENCRYPTION_KEY}"
package credstore
