package response

// 400 参数校验
var (
	ErrInvalidRequest = newError(40000, "请求参数错误")
)

// 401 身份认证
var (
	ErrUnauthorized    = newError(40100, "未登录")
	ErrTokenInvalid    = newError(40101, "登录凭证无效或已过期")
	ErrInvalidPassword = newError(40102, "用户名或密码错误")
)

// 403 权限
var (
	ErrForbidden         = newError(40300, "权限不足")
	ErrApplicationClosed = newError(40301, "当前未开放招新申请")
)

// 404
var (
	ErrNotFound = newError(40400, "资源不存在")
)

// 409 冲突
var (
	ErrConflict            = newError(40900, "资源已存在")
	ErrDuplicateMembership = newError(40901, "已经是该团队成员")
	ErrRoleFull            = newError(40902, "该岗位名额已满")
	ErrStudyFull           = newError(40903, "该学习小组名额已满")
	ErrTeamClosed          = newError(40904, "该团队已停止招募")
	ErrHasDependents       = newError(40950, "存在关联数据，请先删除")
)

// 429
var (
	ErrTooManyRequests = newError(42900, "请求过于频繁")
)

// 500
var (
	ErrServerInternal = newError(50000, "服务器内部错误")
	ErrDatabase       = newError(50001, "数据库错误")
	ErrStorage        = newError(50002, "文件存储错误")
)

