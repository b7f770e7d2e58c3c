package tools

func PanicOnErr(err error) {
	if err != nil {
		panic(err)
	}
}

// Ptr 返回 v 的指针，便于给可选字段赋值
func Ptr[T any](v T) *T {
	return &v
}
