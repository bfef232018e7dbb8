package ledger

import (
	"errors"
	"fmt"
)

// 定位类错误：操作指向的站点/行已不存在时必须整体不生效，
// 返回明确失败信号，不得留下半套状态
var (
	ErrSiteNotFound      = errors.New("site not found")
	ErrRowNotFound       = errors.New("row not found")
	ErrTotalRowProtected = errors.New("calculated total row cannot be deleted")
)

// ValidationError 输入校验错误（如附件超限），操作被拒绝且原状态不变
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// IsNotFound 是否为定位类错误
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSiteNotFound) || errors.Is(err, ErrRowNotFound)
}
