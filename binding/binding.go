// Package binding 展开输出文件名模板中的 ${name} 占位符。
package binding

import (
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Vars 是模板变量表。
type Vars map[string]string

// Interpolate 将文本中的 ${name} 替换为 vars 中的值，未知变量保留原样。
func Interpolate(text string, vars Vars) string {
	if len(vars) == 0 {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		name := strings.TrimSpace(groups[1])
		if val, ok := vars[name]; ok {
			return val
		}
		return match
	})
}

// OutputVars 返回输出文件名可用的变量：title、author、book、from、to。
func OutputVars(title, author, bookID string, from, to int) Vars {
	return Vars{
		"title":  title,
		"author": author,
		"book":   bookID,
		"from":   strconv.Itoa(from),
		"to":     strconv.Itoa(to),
	}
}

var unsafeName = strings.NewReplacer("/", "_", "\\", "_", "\x00", "")

// FileName 展开模板并去掉路径分隔符，保证结果是单个文件名。
func FileName(pattern string, vars Vars) string {
	return unsafeName.Replace(Interpolate(pattern, vars))
}
