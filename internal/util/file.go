package util

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
)

var ErrUnsupportedImportFile = errors.New("unsupported import file: expected .xlsx or .csv")

// ValidateImportFile 同时校验扩展名和文件头嗅探出的 MIME 类型
// xlsx 本质是 zip 包，csv 应被识别为纯文本
func ValidateImportFile(filename string, reader io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	allowedExt := false
	for _, e := range AllowedImportExtensions {
		if e == ext {
			allowedExt = true
			break
		}
	}
	if !allowedExt {
		return "", ErrUnsupportedImportFile
	}

	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}
	if n == 0 {
		return "", fmt.Errorf("%w: file is empty", ErrUnsupportedImportFile)
	}

	mimeType := http.DetectContentType(buffer[:n])
	switch ext {
	case ".xlsx":
		if mimeType != "application/zip" && !IsSpreadsheet(mimeType) {
			return mimeType, fmt.Errorf("%w: detected %s", ErrUnsupportedImportFile, mimeType)
		}
		return MimeXLSX, nil
	default:
		if !strings.HasPrefix(mimeType, "text/plain") {
			return mimeType, fmt.Errorf("%w: detected %s", ErrUnsupportedImportFile, mimeType)
		}
		return MimeCSV, nil
	}
}

// IsSpreadsheet 检测是否为表格文件
func IsSpreadsheet(mimeType string) bool {
	return strings.HasPrefix(mimeType, MimeXLSX) || strings.HasPrefix(mimeType, "text/csv")
}
