package api

import (
    "github.com/gin-gonic/gin/binding"
    "github.com/go-playground/validator/v10"

    "github.com/d60-Lab/social-graph/internal/partition"
)

// RegisterValidators 注册 binding 用的 `partition` 校验标签
func RegisterValidators() {
    if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
        _ = v.RegisterValidation("partition", func(fl validator.FieldLevel) bool {
            return partition.KnownTag(partition.Tag(fl.Field().String()))
        })
    }
}
