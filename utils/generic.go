package utils

// Has 查找序列s内是否存在元素x
//
//	@param	s	[]T	查找序列
//	@param	x	T	特定元素
//	@return	bool true if s contains x, false otherwise
func Has[T comparable](s []T, x T) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == x {
			return true
		}
	}
	return false
}

// MergeUnique 按顺序合并多个序列并去除重复元素, 先出现的元素保留
func MergeUnique[T comparable](lists ...[]T) []T {
	out := make([]T, 0)
	for _, list := range lists {
		for _, v := range list {
			if !Has(out, v) {
				out = append(out, v)
			}
		}
	}
	return out
}
