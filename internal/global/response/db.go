package response

import (
	"errors"

	"gorm.io/gorm"
)

// FromDB 把数据库错误翻译成业务错误
// 外键冲突的含义取决于操作：写入时是引用的记录不存在，删除时是仍有子记录，由 onForeignKey 指定
func FromDB(err error, onForeignKey *Error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound.WithOrigin(err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict.WithOrigin(err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		if onForeignKey == nil {
			onForeignKey = ErrNotFound
		}
		return onForeignKey.WithOrigin(err)
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return ErrInvalidRequest.WithOrigin(err)
	default:
		return ErrDatabase.WithOrigin(err)
	}
}
