// 本文件包含笔记表的创建和索引优化
package database

import (
	"gorm.io/gorm"

	"github.com/snapnote/snapnote/internal/logger"
)

// MigrateNoteTables 执行笔记表的数据库迁移
// 参数: db *gorm.DB - GORM数据库连接实例
// 返回值: error - 迁移失败时返回错误信息
func MigrateNoteTables(db *gorm.DB) error {
	logger.Info("开始执行笔记数据库迁移...")

	if err := db.AutoMigrate(&Note{}); err != nil {
		return err
	}

	if err := createNoteIndexes(db); err != nil {
		return err
	}

	logger.Info("笔记数据库迁移完成")
	return nil
}

// createNoteIndexes 创建笔记表的索引
// 用途: 优化置顶优先的各排序查询和文件夹投影查询
func createNoteIndexes(db *gorm.DB) error {
	indexes := []string{
		// 置顶优先 + 插入序/完成状态排序优化
		"CREATE INDEX IF NOT EXISTS idx_notes_pinned_id ON notes(is_pinned DESC, id ASC)",
		"CREATE INDEX IF NOT EXISTS idx_notes_pinned_done ON notes(is_pinned DESC, is_done ASC, id ASC)",
		// 标题排序为大小写不敏感，对LOWER(title)建表达式索引
		"CREATE INDEX IF NOT EXISTS idx_notes_title_nocase ON notes(LOWER(title))",
		// 文件夹投影查询优化
		"CREATE INDEX IF NOT EXISTS idx_notes_folder_name ON notes(folder_name)",
	}

	for _, indexSQL := range indexes {
		if err := db.Exec(indexSQL).Error; err != nil {
			logger.Errorf("创建索引失败: %s, 错误: %v", indexSQL, err)
			return err
		}
	}

	return nil
}
