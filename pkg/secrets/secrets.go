package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// ErrEmptySecret is returned when the secret has no string value.
var ErrEmptySecret = errors.New("secret has no string value")

// API is the subset of the Secrets Manager client used here.
type API interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// DBSecret is the JSON blob stored for the relational mirror.
type DBSecret struct {
	Host     string      `json:"host"`
	DBName   string      `json:"db_name"`
	Username string      `json:"username"`
	Password string      `json:"password"`
	Port     json.Number `json:"port,omitempty"`
}

// DSN returns a postgres URL. defaultPort is used when the secret has no port.
func (s DBSecret) DSN(defaultPort, sslMode string) string {
	port := s.Port.String()
	if port == "" {
		port = defaultPort
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(s.Username, s.Password),
		Host:   net.JoinHostPort(s.Host, port),
		Path:   "/" + s.DBName,
	}
	if sslMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{sslMode}}.Encode()
	}
	return u.String()
}

// Client fetches secrets by name. No value is cached; every call hits the store.
type Client struct {
	api API
}

// NewClient wraps a Secrets Manager client.
func NewClient(api API) *Client {
	return &Client{api: api}
}

// FetchDB reads and decodes the database secret called name.
func (c *Client) FetchDB(ctx context.Context, name string) (*DBSecret, error) {
	out, err := c.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(name)})
	if err != nil {
		return nil, fmt.Errorf("get secret value: %w", err)
	}
	if out.SecretString == nil || *out.SecretString == "" {
		return nil, ErrEmptySecret
	}
	var sec DBSecret
	if err := json.Unmarshal([]byte(*out.SecretString), &sec); err != nil {
		return nil, fmt.Errorf("decode secret: %w", err)
	}
	return &sec, nil
}
