package layout

import "github.com/pkg/errors"

var (
	// ErrInvalidGeometry 表示画布与行列参数无法构成网格。
	ErrInvalidGeometry = errors.New("版面几何参数无效")

	// ErrSlotOutOfRange 表示访问了网格表之外的格位，属于内部错误。
	ErrSlotOutOfRange = errors.New("格位越界")

	// ErrInvalidPlan 表示排版结果违反页码或目录约束。
	ErrInvalidPlan = errors.New("排版结果不合法")
)
