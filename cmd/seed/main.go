package main

import (
    "fmt"
    "os"
    "strconv"

    "github.com/google/uuid"
    "golang.org/x/crypto/bcrypt"

    "github.com/d60-Lab/social-graph/config"
    "github.com/d60-Lab/social-graph/internal/model"
    "github.com/d60-Lab/social-graph/pkg/database"
)

func must[T any](v T, err error) T {
    if err != nil {
        panic(err)
    }
    return v
}

// 向三个分区库各写入 N 个角色用户，供联调与演示
func main() {
    cfg := must(config.Load())
    stores := must(database.Init(cfg))
    defer stores.Close()
    if err := stores.Migrate(); err != nil {
        panic(err)
    }

    n := 100
    if s := os.Getenv("N"); s != "" {
        if v, err := strconv.Atoi(s); err == nil && v > 0 {
            n = v
        }
    }

    hash := must(bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost))

    doctors := make([]model.Doctor, n)
    for i := range doctors {
        id := uuid.New().String()
        doctors[i] = model.Doctor{
            ID:       id,
            RealName: fmt.Sprintf("医生%04d", i),
            Title:    "主治医师",
            Hospital: "示例医院",
            Email:    id[:8] + "@hospital.example.com",
            Password: string(hash),
        }
    }
    if err := stores.Doctor.Create(&doctors).Error; err != nil {
        panic(err)
    }

    patients := make([]model.Patient, n)
    for i := range patients {
        id := uuid.New().String()
        patients[i] = model.Patient{
            ID:       id,
            Nickname: fmt.Sprintf("patient%04d", i),
            Phone:    fmt.Sprintf("138%08d", i),
            Password: string(hash),
        }
    }
    if err := stores.Patient.Create(&patients).Error; err != nil {
        panic(err)
    }

    admins := make([]model.Admin, 3)
    for i := range admins {
        id := uuid.New().String()
        admins[i] = model.Admin{
            ID:          id,
            DisplayName: fmt.Sprintf("admin%d", i),
            Email:       fmt.Sprintf("admin%d@example.com", i),
            Password:    string(hash),
        }
    }
    if err := stores.Admin.Create(&admins).Error; err != nil {
        panic(err)
    }

    fmt.Printf("seeded %d doctors, %d patients, %d admins\n", len(doctors), len(patients), len(admins))
}
