package directory

import (
	"context"
	"errors"
	"fmt"

	"axiapac.com/attendance/core"
	"axiapac.com/attendance/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is the MySQL-backed directory.
type GormStore struct {
	dm *core.DatabaseManager
}

func NewGormStore(dm *core.DatabaseManager) *GormStore {
	return &GormStore{dm: dm}
}

func (s *GormStore) Migrate(ctx context.Context) error {
	return s.dm.Migrate(ctx, &model.UserAccount{}, &model.AttendanceRecord{}, &model.Credential{})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.ErrNoRecord
	}
	return err
}

func (s *GormStore) GetAccount(ctx context.Context, id string) (*model.UserAccount, error) {
	var account model.UserAccount
	if err := s.dm.DB(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		return nil, notFound(err)
	}
	return &account, nil
}

func (s *GormStore) ListAccounts(ctx context.Context) ([]model.UserAccount, error) {
	var accounts []model.UserAccount
	err := s.dm.DB(ctx).Order("created_at").Find(&accounts).Error
	return accounts, err
}

func (s *GormStore) AccountExists(ctx context.Context, field model.Field, value string) (bool, error) {
	column := field.Column()
	if column == "" {
		return false, fmt.Errorf("unknown field %q", field)
	}
	var count int64
	err := s.dm.DB(ctx).Model(&model.UserAccount{}).Where(column+" = ?", value).Count(&count).Error
	return count > 0, err
}

func (s *GormStore) PutAccount(ctx context.Context, account *model.UserAccount) error {
	return translate(s.dm.DB(ctx).Create(account).Error)
}

func (s *GormStore) SetAccountActive(ctx context.Context, id string, isActive bool) error {
	return s.dm.Transaction(ctx, func(tx *gorm.DB) error {
		var account model.UserAccount
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").Where("id = ?", id).First(&account).Error
		if err != nil {
			return notFound(err)
		}
		return tx.Model(&model.UserAccount{}).Where("id = ?", id).Update("is_active", isActive).Error
	})
}

func (s *GormStore) ListAttendance(ctx context.Context) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := s.dm.DB(ctx).Find(&records).Error
	return records, err
}

func (s *GormStore) GetAttendance(ctx context.Context, id string) (*model.AttendanceRecord, error) {
	var record model.AttendanceRecord
	if err := s.dm.DB(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		return nil, notFound(err)
	}
	return &record, nil
}

// PutAttendance upserts a record by id.
func (s *GormStore) PutAttendance(ctx context.Context, record *model.AttendanceRecord) error {
	return s.dm.DB(ctx).Save(record).Error
}

func (s *GormStore) PutCredential(ctx context.Context, credential *model.Credential) error {
	return translate(s.dm.DB(ctx).Create(credential).Error)
}

func (s *GormStore) GetCredentialByEmail(ctx context.Context, email string) (*model.Credential, error) {
	var credential model.Credential
	if err := s.dm.DB(ctx).Where("email = ?", email).First(&credential).Error; err != nil {
		return nil, notFound(err)
	}
	return &credential, nil
}
