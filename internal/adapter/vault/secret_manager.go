package vault

import (
	"fmt"

	"github.com/hashicorp/vault/api"
)

type SecretManager struct {
	client *api.Client
}

func NewSecretManager(address, token string) (*SecretManager, error) {
	config := api.DefaultConfig()
	config.Address = address

	client, err := api.NewClient(config)
	if err != nil {
		return nil, err
	}

	client.SetToken(token)

	return &SecretManager{client: client}, nil
}

func (sm *SecretManager) GetDatabaseURL() (string, error) {
	data, err := sm.read("secret/data/database")
	if err != nil {
		return "", err
	}
	return stringField(data, "connection_string")
}

// GetStripeKeys returns the secret key, publishable key and webhook
// signing secret stored under secret/data/stripe.
func (sm *SecretManager) GetStripeKeys() (secretKey, publishableKey, webhookSecret string, err error) {
	data, err := sm.read("secret/data/stripe")
	if err != nil {
		return "", "", "", err
	}

	if secretKey, err = stringField(data, "secret_key"); err != nil {
		return "", "", "", err
	}
	if publishableKey, err = stringField(data, "publishable_key"); err != nil {
		return "", "", "", err
	}
	if webhookSecret, err = stringField(data, "webhook_secret"); err != nil {
		return "", "", "", err
	}
	return secretKey, publishableKey, webhookSecret, nil
}

func (sm *SecretManager) read(path string) (map[string]interface{}, error) {
	secret, err := sm.client.Logical().Read(path)
	if err != nil {
		return nil, err
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("vault: no secret at %s", path)
	}
	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("vault: unexpected secret shape at %s", path)
	}
	return data, nil
}

func stringField(data map[string]interface{}, key string) (string, error) {
	value, ok := data[key].(string)
	if !ok {
		return "", fmt.Errorf("vault: missing field %s", key)
	}
	return value, nil
}
