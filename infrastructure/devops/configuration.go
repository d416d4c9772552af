package devops

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"axiapac.com/portal/utils"
)

const parameterName = "databases"

// DBEntry is one database in the "databases" SSM parameter.
type DBEntry struct {
	Name     string `yaml:"name"`
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// DSN renders a connection string for the entry's driver. Database defaults
// to the entry name.
func (e DBEntry) DSN() string {
	database := e.Database
	if database == "" {
		database = e.Name
	}

	if e.Driver == "postgres" {
		port := e.Port
		if port == 0 {
			port = 5432
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(e.Username, e.Password),
			Host:     fmt.Sprintf("%s:%d", e.Host, port),
			Path:     "/" + database,
			RawQuery: "sslmode=require",
		}
		return u.String()
	}

	port := e.Port
	if port == 0 {
		port = 3306
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		e.Username, e.Password, e.Host, port, database)
}

var (
	once    sync.Once
	dbList  []DBEntry
	loadErr error
)

// LoadDBConfig reads the parameter once per process.
func LoadDBConfig(ctx context.Context) ([]DBEntry, error) {
	once.Do(func() {
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			loadErr = fmt.Errorf("load aws config: %w", err)
			return
		}

		client := ssm.NewFromConfig(cfg)

		out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(parameterName),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			loadErr = fmt.Errorf("get parameter: %w", err)
			return
		}

		dbList, loadErr = ParseDBConfig([]byte(aws.ToString(out.Parameter.Value)))
	})

	return dbList, loadErr
}

func ParseDBConfig(data []byte) ([]DBEntry, error) {
	var parsed []DBEntry
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	return parsed, nil
}

// ResolveDSN loads the parameter and returns the DSN of the named entry.
func ResolveDSN(ctx context.Context, name string) (string, error) {
	databases, err := LoadDBConfig(ctx)
	if err != nil {
		return "", err
	}
	return FindDSN(databases, name)
}

func FindDSN(databases []DBEntry, name string) (string, error) {
	entry := utils.Find(databases, func(db DBEntry) bool {
		return db.Name == name
	})
	if entry == nil {
		return "", fmt.Errorf("%s database parameter not found", name)
	}
	return entry.DSN(), nil
}
