// internal/pkg/config/config.go
package config

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config 汇总了 storefront 及其附属进程的全部可配置项。
// 配置来源：YAML 文件为主，少量环境变量可覆盖（便于容器化部署）。
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	MySQL     MySQLConfig     `yaml:"mysql"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Jaeger    JaegerConfig    `yaml:"jaeger"`
	Inventory InventoryConfig `yaml:"inventory"`
	Zookeeper ZookeeperConfig `yaml:"zookeeper"`
	Auth      AuthConfig      `yaml:"auth"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// DSN 使用官方驱动的 mysql.Config 构造连接串，避免手工拼接的转义问题。
func (m MySQLConfig) DSN() string {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = m.Host + ":" + m.Port
	cfg.User = m.User
	cfg.Passwd = m.Password
	cfg.DBName = m.Database
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN()
}

type RedisConfig struct {
	Addrs string `yaml:"addrs"` // 逗号分隔，多于一个地址时按集群模式连接
}

type KafkaConfig struct {
	Brokers          string `yaml:"brokers"` // 逗号分隔
	OrderEventsTopic string `yaml:"orderEventsTopic"`
}

type JaegerConfig struct {
	Endpoint string `yaml:"endpoint"`
}

// InventoryConfig 选择库存预占的存储后端和锁后端。
// backend: memory | mysql | redis
// locker:  local | zookeeper
type InventoryConfig struct {
	Backend string `yaml:"backend"`
	Locker  string `yaml:"locker"`
}

type ZookeeperConfig struct {
	Servers string `yaml:"servers"` // 逗号分隔
}

// AuthConfig 是认证协作方的静态配置：bearer token 到身份的映射。
// 真实系统会换成会话/JWT 校验，这里只提供边界所需的 (userId, isAdmin)。
type AuthConfig struct {
	Tokens []TokenEntry `yaml:"tokens"`
}

type TokenEntry struct {
	Token  string `yaml:"token"`
	UserID string `yaml:"userId"`
	Admin  bool   `yaml:"admin"`
}

var (
	current Config
	once    sync.Once
)

// Load 从指定路径读取配置文件并应用环境变量覆盖。
// path 为空时按 FLASHMART_CONFIG 环境变量或默认 configs/storefront.yaml 查找。
func Load(path string) (*Config, error) {
	if path == "" {
		path = getEnv("FLASHMART_CONFIG", "configs/storefront.yaml")
	}

	cfg := defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
		// 没有配置文件时使用默认值，方便本地快速启动
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config file %s", path)
	}

	applyEnvOverrides(&cfg)

	once.Do(func() { current = cfg })
	current = cfg
	return &cfg, nil
}

// Get 返回最近一次 Load 的配置。必须先调用 Load。
func Get() *Config {
	return &current
}

func defaults() Config {
	return Config{
		Server: ServerConfig{Port: 8080},
		MySQL: MySQLConfig{
			Host: "localhost", Port: "3306",
			User: "root", Password: "root", Database: "flashmart",
		},
		Redis:     RedisConfig{Addrs: "localhost:6379"},
		Kafka:     KafkaConfig{Brokers: "localhost:9092", OrderEventsTopic: "order-events"},
		Jaeger:    JaegerConfig{Endpoint: "http://localhost:14268/api/traces"},
		Inventory: InventoryConfig{Backend: "memory", Locker: "local"},
		Zookeeper: ZookeeperConfig{Servers: "localhost:2181"},
	}
}

func applyEnvOverrides(cfg *Config) {
	cfg.Kafka.Brokers = getEnv("KAFKA_BROKERS", cfg.Kafka.Brokers)
	cfg.Redis.Addrs = getEnv("REDIS_ADDRS", cfg.Redis.Addrs)
	cfg.Jaeger.Endpoint = getEnv("JAEGER_ENDPOINT", cfg.Jaeger.Endpoint)
	cfg.Zookeeper.Servers = getEnv("ZK_SERVERS", cfg.Zookeeper.Servers)
	cfg.MySQL.Host = getEnv("MYSQL_HOST", cfg.MySQL.Host)
	cfg.MySQL.Password = getEnv("MYSQL_PASSWORD", cfg.MySQL.Password)
}

// SplitAddrs 将逗号分隔的地址列表切分为 slice。
func SplitAddrs(addrs string) []string {
	parts := strings.Split(addrs, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
