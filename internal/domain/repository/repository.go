// Package repository 定义数据访问层接口
package repository

import (
	"context"
	"errors"
)

// ErrCredentialNotFound 未保存凭据
var ErrCredentialNotFound = errors.New("credential not found")

// CredentialRepository 凭据持久化接口（进程级单键存储）
type CredentialRepository interface {
	// Get 读取凭据，未保存时返回 ErrCredentialNotFound
	Get(ctx context.Context) (string, error)
	// Set 写入凭据
	Set(ctx context.Context, value string) error
	// Delete 删除凭据，未保存时不报错
	Delete(ctx context.Context) error
}
