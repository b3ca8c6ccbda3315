package util

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

// SniffLength DetectImage 判断类型所需的文件头长度
const SniffLength = 3072

// DetectImage 根据文件头识别图片类型，返回 MIME 类型和扩展名
func DetectImage(head []byte) (string, string, error) {
	m := mimetype.Detect(head)
	if !strings.HasPrefix(m.String(), MimeImage) {
		return m.String(), "", errors.Errorf("invalid file type: %s", m.String())
	}
	return m.String(), m.Extension(), nil
}
