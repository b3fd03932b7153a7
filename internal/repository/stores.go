package repository

import (
    "context"

    "gorm.io/gorm"

    "github.com/d60-Lab/social-graph/internal/partition"
)

// orderClause 把逻辑排序字段翻译成分区各自的列名
func orderClause(nameCol string, f partition.SortField, o partition.SortOrder) string {
    col := nameCol
    if f == partition.SortByCreatedAt {
        col = "created_at"
    }
    if o == partition.OrderDesc {
        return col + " DESC"
    }
    return col + " ASC"
}

// addCount 计数原地增减；delta 为负时带下界条件，不减到负数
func addCount(ctx context.Context, db *gorm.DB, m any, col, id string, delta int) error {
    tx := db.WithContext(ctx).Model(m).Where("id = ?", id)
    if delta < 0 {
        tx = tx.Where(col+" >= ?", -delta)
    }
    return tx.UpdateColumn(col, gorm.Expr(col+" + ?", delta)).Error
}
