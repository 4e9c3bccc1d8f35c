// SPDX-License-Identifier: Apache-2.0
package push

import (
	"encoding/base64"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type VAPIDKey struct {
	Private string
	Public  string
}

func (k *VAPIDKey) Configured() bool {
	return k != nil && k.Public != "" && k.Private != ""
}

type Config struct {
	Key        *VAPIDKey
	Subscriber string
	// TTL in seconds handed to the push vendor for undelivered messages.
	TTL int
}

type environment struct {
	PublicKey  string `envconfig:"WEB_PUSH_PUBLIC_KEY"`
	PrivateKey string `envconfig:"WEB_PUSH_PRIVATE_KEY"`
	Contact    string `envconfig:"WEB_PUSH_CONTACT" default:"push@donnajuce.com.br"`
}

// ConfigFromEnv reads the VAPID key pair and subscriber contact from the
// process environment, normalizing both key halves. Missing keys are not an
// error here; callers check Key.Configured() at dispatch time.
func ConfigFromEnv() (*Config, error) {
	var env environment
	if err := envconfig.Process("", &env); err != nil {
		return nil, err
	}

	public := NormalizeKey(env.PublicKey)
	if public != "" {
		if _, err := DecodeKey(public); err != nil {
			logrus.Errorf("configured WEB_PUSH_PUBLIC_KEY does not decode, disabling push: %s", err)
			public = ""
		}
	}

	return &Config{
		Key: &VAPIDKey{
			Public:  public,
			Private: NormalizeKey(env.PrivateKey),
		},
		Subscriber: env.Contact,
		TTL:        30,
	}, nil
}

// NormalizeKey turns a raw configured secret into the url-safe base64
// alphabet the browser Push API expects: whitespace removed, one layer of
// surrounding quotes stripped, `+`/`/` mapped to `-`/`_`, padding dropped.
// Idempotent.
func NormalizeKey(raw string) string {
	key := strings.Join(strings.Fields(raw), "")
	for _, quote := range []string{`"`, `'`} {
		key = strings.TrimPrefix(key, quote)
		key = strings.TrimSuffix(key, quote)
	}
	key = strings.ReplaceAll(key, "+", "-")
	key = strings.ReplaceAll(key, "/", "_")
	return strings.TrimRight(key, "=")
}

// DecodeKey decodes a url-safe base64 key into its raw bytes, the inverse of
// what subscribing clients feed to the vendor's applicationServerKey.
func DecodeKey(key string) ([]byte, error) {
	std := strings.ReplaceAll(key, "-", "+")
	std = strings.ReplaceAll(std, "_", "/")
	if mod := len(std) % 4; mod != 0 {
		std += strings.Repeat("=", 4-mod)
	}
	return base64.StdEncoding.DecodeString(std)
}
