package directory

import (
	"errors"
	"strings"

	"axiapac.com/attendance/core"
	"axiapac.com/attendance/model"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

const (
	mysqlDuplicateEntry = 1062
	pqUniqueViolation   = "23505"
)

// unique index / constraint names, shared by the gorm tags and the postgres DDL
var indexFields = []struct {
	index string
	field model.Field
}{
	{"idx_user_accounts_email", model.FieldEmail},
	{"idx_user_accounts_username", model.FieldUsername},
	{"idx_user_accounts_employee_id", model.FieldEmployeeID},
	{"idx_user_accounts_national_id", model.FieldNationalID},
	{"idx_credentials_email", model.FieldEmail},
}

func fieldForIndex(s string) (model.Field, bool) {
	for _, ix := range indexFields {
		if strings.Contains(s, ix.index) {
			return ix.field, true
		}
	}
	return "", false
}

// translate maps driver errors to the directory's error vocabulary.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var myErr *mysqldriver.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		if f, ok := fieldForIndex(myErr.Message); ok {
			return core.DuplicateField(f)
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
		if f, ok := fieldForIndex(pqErr.Constraint); ok {
			return core.DuplicateField(f)
		}
	}

	return err
}
