package database

import (
    "fmt"

    "gorm.io/driver/postgres"
    "gorm.io/driver/sqlite"
    "gorm.io/gorm"
    gormlogger "gorm.io/gorm/logger"

    "github.com/d60-Lab/social-graph/config"
    "github.com/d60-Lab/social-graph/internal/model"
)

// Stores 四个独立库的句柄。Core 放边表、通知表、内容与 outbox，
// 三个分区库各放一种角色的用户表，互相之间不存在事务边界。
type Stores struct {
    Core    *gorm.DB
    Doctor  *gorm.DB
    Patient *gorm.DB
    Admin   *gorm.DB
}

// Init 按配置打开全部库
func Init(cfg *config.Config) (*Stores, error) {
    open := func(dsn string) (*gorm.DB, error) {
        gcfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Warn)}
        switch cfg.Database.Driver {
        case "postgres":
            return gorm.Open(postgres.Open(dsn), gcfg)
        case "sqlite":
            return gorm.Open(sqlite.Open(dsn), gcfg)
        default:
            return nil, fmt.Errorf("unsupported driver %q", cfg.Database.Driver)
        }
    }

    core, err := open(cfg.Database.CoreDSN)
    if err != nil {
        return nil, fmt.Errorf("open core store: %w", err)
    }
    doctor, err := open(cfg.Database.DoctorDSN)
    if err != nil {
        return nil, fmt.Errorf("open doctor store: %w", err)
    }
    patient, err := open(cfg.Database.PatientDSN)
    if err != nil {
        return nil, fmt.Errorf("open patient store: %w", err)
    }
    admin, err := open(cfg.Database.AdminDSN)
    if err != nil {
        return nil, fmt.Errorf("open admin store: %w", err)
    }
    return &Stores{Core: core, Doctor: doctor, Patient: patient, Admin: admin}, nil
}

// Migrate 各库各自建表
func (s *Stores) Migrate() error {
    if err := s.Core.AutoMigrate(&model.FollowEdge{}, &model.Notification{}, &model.Article{}, &model.Outbox{}); err != nil {
        return err
    }
    if err := s.Doctor.AutoMigrate(&model.Doctor{}); err != nil {
        return err
    }
    if err := s.Patient.AutoMigrate(&model.Patient{}); err != nil {
        return err
    }
    return s.Admin.AutoMigrate(&model.Admin{})
}

// Close 关闭全部连接
func (s *Stores) Close() {
    for _, db := range []*gorm.DB{s.Core, s.Doctor, s.Patient, s.Admin} {
        if db == nil {
            continue
        }
        if sqlDB, err := db.DB(); err == nil {
            _ = sqlDB.Close()
        }
    }
}
