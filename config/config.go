package config

import (
    "strings"

    "github.com/spf13/viper"
)

// Config 全量配置，config.yaml + 环境变量（SG_ 前缀）覆盖
type Config struct {
    Server struct {
        Port int    `mapstructure:"port"`
        Mode string `mapstructure:"mode"` // dev / release
    } `mapstructure:"server"`

    Log struct {
        Level string `mapstructure:"level"`
    } `mapstructure:"log"`

    // 四个库：核心库（边/通知/内容/outbox）+ 三个分区用户库。
    // 分区库之间没有跨库事务能力，DSN 可各自独立部署。
    Database struct {
        Driver     string `mapstructure:"driver"` // postgres / sqlite
        CoreDSN    string `mapstructure:"core_dsn"`
        DoctorDSN  string `mapstructure:"doctor_dsn"`
        PatientDSN string `mapstructure:"patient_dsn"`
        AdminDSN   string `mapstructure:"admin_dsn"`
    } `mapstructure:"database"`

    Redis struct {
        Addr     string `mapstructure:"addr"`
        Password string `mapstructure:"password"`
        DB       int    `mapstructure:"db"`
    } `mapstructure:"redis"`

    JWT struct {
        Secret string `mapstructure:"secret"`
    } `mapstructure:"jwt"`

    Sentry struct {
        DSN string `mapstructure:"dsn"`
    } `mapstructure:"sentry"`

    Trace struct {
        Enabled  bool   `mapstructure:"enabled"`
        Endpoint string `mapstructure:"endpoint"`
    } `mapstructure:"trace"`

    Fanout struct {
        Workers        int `mapstructure:"workers"`
        ClaimLimit     int `mapstructure:"claim_limit"`
        PollIntervalMS int `mapstructure:"poll_interval_ms"`
    } `mapstructure:"fanout"`

    Notification struct {
        RetentionDays int `mapstructure:"retention_days"`
        UnreadTTLSec  int `mapstructure:"unread_ttl_sec"`
    } `mapstructure:"notification"`

    Reconcile struct {
        BatchSize  int     `mapstructure:"batch_size"`
        RatePerSec float64 `mapstructure:"rate_per_sec"`
    } `mapstructure:"reconcile"`
}

func Load() (*Config, error) {
    v := viper.New()
    v.SetConfigName("config")
    v.SetConfigType("yaml")
    v.AddConfigPath(".")
    v.AddConfigPath("./config")
    v.SetEnvPrefix("SG")
    v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
    v.AutomaticEnv()

    v.SetDefault("server.port", 8080)
    v.SetDefault("server.mode", "dev")
    v.SetDefault("log.level", "info")
    v.SetDefault("database.driver", "sqlite")
    v.SetDefault("database.core_dsn", "core.db")
    v.SetDefault("database.doctor_dsn", "doctor.db")
    v.SetDefault("database.patient_dsn", "patient.db")
    v.SetDefault("database.admin_dsn", "admin.db")
    v.SetDefault("redis.addr", "")
    v.SetDefault("fanout.workers", 2)
    v.SetDefault("fanout.claim_limit", 64)
    v.SetDefault("fanout.poll_interval_ms", 200)
    v.SetDefault("notification.retention_days", 7)
    v.SetDefault("notification.unread_ttl_sec", 60)
    v.SetDefault("reconcile.batch_size", 200)
    v.SetDefault("reconcile.rate_per_sec", 50)

    if err := v.ReadInConfig(); err != nil {
        // 允许无配置文件，仅靠默认值与环境变量
        if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
            return nil, err
        }
    }

    var cfg Config
    if err := v.Unmarshal(&cfg); err != nil {
        return nil, err
    }
    return &cfg, nil
}
