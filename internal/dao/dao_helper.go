package dao

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// issueOf returns the owning issue id of a child row, used as the write queue key
// issueOf 查询子记录所属期刊，作为写队列的 key
func (d *Dao) issueOf(ctx context.Context, table any, id int64) (int64, error) {
	var ids []int64
	if err := d.DB(ctx).Model(table).Where("id = ?", id).Limit(1).Pluck("issue_id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return ids[0], nil
}

// updateByID 按 id 更新子记录的指定列，未命中时返回 gorm.ErrRecordNotFound
func (d *Dao) updateByID(ctx context.Context, table any, id int64, values map[string]any) error {
	issueID, err := d.issueOf(ctx, table, id)
	if err != nil {
		return err
	}
	return d.ExecuteWrite(ctx, issueID, func(tx *gorm.DB) error {
		res := tx.Model(table).Where("id = ?", id).Updates(values)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// deleteByID 按 id 删除子记录
func (d *Dao) deleteByID(ctx context.Context, table any, id int64) error {
	issueID, err := d.issueOf(ctx, table, id)
	if err != nil {
		return err
	}
	return d.ExecuteWrite(ctx, issueID, func(tx *gorm.DB) error {
		return tx.Where("id = ?", id).Delete(table).Error
	})
}

// maxOrder 返回期刊下子记录的最大 sort_order，没有记录时返回 -1
func (d *Dao) maxOrder(ctx context.Context, table any, issueID int64) (int, error) {
	var max sql.NullInt64
	err := d.DB(ctx).Model(table).Where("issue_id = ?", issueID).Select("MAX(sort_order)").Row().Scan(&max)
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return -1, nil
	}
	return int(max.Int64), nil
}

// countByIssue 期刊下子记录数量
func (d *Dao) countByIssue(ctx context.Context, table any, issueID int64) (int64, error) {
	var n int64
	err := d.DB(ctx).Model(table).Where("issue_id = ?", issueID).Count(&n).Error
	return n, err
}
