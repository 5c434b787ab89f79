package main

import (
	"fmt"
	"os"

	"github.com/devmart/internal/config"
	"github.com/devmart/internal/db"
	"github.com/devmart/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "配置加载失败:", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)

	// 初始化数据库
	gdb, err := db.Open(cfg.DatabasePath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("数据库初始化失败")
	}

	username, password := cfg.AdminUserName, cfg.AdminPassword
	if username == "" || password == "" {
		// 默认管理员
		username, password = "admin", "admin123"
	}

	var count int64
	gdb.Model(&db.User{}).Where("username = ?", username).Count(&count)
	if count > 0 {
		fmt.Println("用户已存在，无需初始化")
		return
	}

	if err := db.EnsureUser(gdb, username, password); err != nil {
		log.Fatal().Err(err).Msg("创建用户失败")
	}

	fmt.Println("管理员用户创建成功")
	fmt.Println("用户名:", username)
	if cfg.AdminPassword == "" {
		fmt.Println("密码:", password)
	}
}
