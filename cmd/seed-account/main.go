// seed-account 创建一个用户及其收件账户与角色配置，
// 用于初始化部署或本地联调。
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"mailgate/backend/internal/config"
	"mailgate/backend/internal/domain"
	sqlstore "mailgate/backend/internal/storage/sql"
)

func main() {
	userEmail := flag.String("user", "", "用户邮箱（登录身份）")
	accountEmail := flag.String("account", "", "收件账户地址")
	availDomain := flag.String("domains", "*", "可用域名列表，逗号分隔，* 表示全部")
	flag.Parse()

	if *userEmail == "" || *accountEmail == "" {
		fmt.Println("用法:")
		fmt.Println("  go run cmd/seed-account/main.go -user=admin@example.com -account=inbox@example.com [-domains=example.com]")
		os.Exit(1)
	}
	if !strings.Contains(*accountEmail, "@") {
		fmt.Println("错误: 收件账户地址格式无效")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("错误: 加载配置失败: %v\n", err)
		os.Exit(1)
	}
	if cfg.Database.Type == "" {
		fmt.Println("错误: 未配置数据库，seed-account 仅支持 SQL 存储")
		os.Exit(1)
	}

	store, err := sqlstore.NewStore(
		cfg.Database.Type,
		cfg.Database.DSN,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
		cfg.Database.ConnMaxLifetime,
	)
	if err != nil {
		fmt.Printf("错误: 连接数据库失败: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now().UTC()
	user := &domain.User{
		Email:     strings.ToLower(strings.TrimSpace(*userEmail)),
		Name:      localName(*userEmail),
		CreatedAt: now,
	}
	if err := store.SaveUser(ctx, user); err != nil {
		fmt.Printf("错误: 创建用户失败: %v\n", err)
		os.Exit(1)
	}

	account := &domain.Account{
		UserID:    user.UserID,
		Email:     strings.ToLower(strings.TrimSpace(*accountEmail)),
		Name:      localName(*accountEmail),
		CreatedAt: now,
	}
	if err := store.SaveAccount(ctx, account); err != nil {
		fmt.Printf("错误: 创建收件账户失败: %v\n", err)
		os.Exit(1)
	}

	role := &domain.Role{
		UserID:       user.UserID,
		AvailDomain:  *availDomain,
		BanEmailType: domain.BanTypeNone,
		CreatedAt:    now,
	}
	if err := store.SaveRole(ctx, role); err != nil {
		fmt.Printf("错误: 创建角色配置失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✓ 账户初始化完成")
	fmt.Printf("  userId:    %d\n", user.UserID)
	fmt.Printf("  accountId: %d\n", account.AccountID)
	fmt.Printf("  account:   %s\n", account.Email)
	fmt.Printf("  domains:   %s\n", role.AvailDomain)
}

func localName(email string) string {
	if idx := strings.Index(email, "@"); idx > 0 {
		return email[:idx]
	}
	return email
}
