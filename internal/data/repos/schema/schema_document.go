package schema

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/profileforms-backend/internal/domain"
	"github.com/yungbote/profileforms-backend/internal/platform/dbctx"
	"github.com/yungbote/profileforms-backend/internal/platform/logger"
)

type SchemaDocumentRepo interface {
	GetByKey(dbc dbctx.Context, key string) (*types.SchemaDocument, error)
	Create(dbc dbctx.Context, row *types.SchemaDocument) error
}

type schemaDocumentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSchemaDocumentRepo(db *gorm.DB, baseLog *logger.Logger) SchemaDocumentRepo {
	return &schemaDocumentRepo{db: db, log: baseLog.With("repo", "SchemaDocumentRepo")}
}

// GetByKey returns nil, nil when no document has been written under key.
func (r *schemaDocumentRepo) GetByKey(dbc dbctx.Context, key string) (*types.SchemaDocument, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}
	var row types.SchemaDocument
	if err := dbc.DB(r.db).Where("doc_key = ?", key).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *schemaDocumentRepo) Create(dbc dbctx.Context, row *types.SchemaDocument) error {
	if row == nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return dbc.DB(r.db).Create(row).Error
}
