// Package model 定义 gorm 数据库模型
package model

import (
	"time"

	"gorm.io/gorm"
)

// Issue 期刊表
type Issue struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Title       string     `gorm:"column:title;size:255;not null"`
	PublishDate *time.Time `gorm:"column:publish_date;index"`
	CurrentStep string     `gorm:"column:current_step;size:32;not null;default:links"`
	CreatedAt   time.Time  `gorm:"column:created_at;index"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

// LinkItem 链接表
type LinkItem struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	IssueID         int64     `gorm:"column:issue_id;not null;index:idx_link_issue_order,priority:1"`
	URL             string    `gorm:"column:url;type:text;not null"`
	MetaTitle       *string   `gorm:"column:meta_title;type:text"`
	MetaDescription *string   `gorm:"column:meta_description;type:text"`
	ToneNote        *string   `gorm:"column:tone_note;type:text"`
	AudioPath       *string   `gorm:"column:audio_path;type:text"`
	AudioTranscript *string   `gorm:"column:audio_transcript;type:text"`
	Selected        bool      `gorm:"column:selected;not null;default:false"`
	ShortURL        *string   `gorm:"column:short_url;type:text"`
	Order           int       `gorm:"column:sort_order;not null;default:0;index:idx_link_issue_order,priority:2"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

// EventItem 事件表
type EventItem struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	IssueID     int64     `gorm:"column:issue_id;not null;index:idx_event_issue_order,priority:1"`
	Title       string    `gorm:"column:title;type:text;not null"`
	Date        string    `gorm:"column:date;size:64"`
	Location    string    `gorm:"column:location;size:255"`
	Description string    `gorm:"column:description;type:text"`
	SourceURL   *string   `gorm:"column:source_url;type:text"`
	Included    bool      `gorm:"column:included;not null"`
	Order       int       `gorm:"column:sort_order;not null;default:0;index:idx_event_issue_order,priority:2"`
	ShortURL    *string   `gorm:"column:short_url;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

// GeneratedSection 章节表，content / edited_content 为 JSON 文本
type GeneratedSection struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	IssueID       int64     `gorm:"column:issue_id;not null;index:idx_section_issue_order,priority:1"`
	LinkItemID    *int64    `gorm:"column:link_item_id;index"`
	SectionType   string    `gorm:"column:section_type;size:32;not null;default:main"`
	Content       string    `gorm:"column:content;type:text;not null"`
	EditedContent *string   `gorm:"column:edited_content;type:text"`
	Order         int       `gorm:"column:sort_order;not null;default:0;index:idx_section_issue_order,priority:2"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

// Export 导出表
type Export struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	IssueID   int64     `gorm:"column:issue_id;not null;index:idx_export_issue_created,priority:1"`
	Format    string    `gorm:"column:format;size:8;not null;default:txt"`
	Content   string    `gorm:"column:content;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;index:idx_export_issue_created,priority:2"`
}

// GeneratedImage 配图表
type GeneratedImage struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	IssueID   int64     `gorm:"column:issue_id;not null;index:idx_image_issue_created,priority:1"`
	SectionID int64     `gorm:"column:section_id;not null;index"`
	Prompt    string    `gorm:"column:prompt;type:text"`
	ImageData string    `gorm:"column:image_data;type:text"`
	MimeType  string    `gorm:"column:mime_type;size:64"`
	CreatedAt time.Time `gorm:"column:created_at;index:idx_image_issue_created,priority:2"`
}

// All 返回全部模型，用于迁移与级联删除
func All() []any {
	return []any{&Issue{}, &LinkItem{}, &EventItem{}, &GeneratedSection{}, &Export{}, &GeneratedImage{}}
}

// AutoMigrate 迁移全部表结构
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
