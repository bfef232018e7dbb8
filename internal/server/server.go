package server

import (
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/privatep88/record-water-elc/internal/api"
	"github.com/privatep88/record-water-elc/internal/config"
	"github.com/privatep88/record-water-elc/internal/ledger"
	"github.com/privatep88/record-water-elc/internal/storage"
)

// Server HTTP 服务器
type Server struct {
	router *gin.Engine
	store  storage.Store
	ledger *ledger.Ledger
	saver  *storage.Saver
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig) *Server {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化 SQLite 键值存储
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		dataDir = cfg.Data.DataDir
	}
	dbPath := filepath.Join(dataDir, cfg.Data.DBFile)

	var store storage.Store
	store, err = storage.NewSQLiteStore(dbPath, cfg.Data.MaxValueSize)
	if err != nil {
		// 存储不可用不致命：退化为纯内存运行，退出即失
		log.Printf("警告: 初始化数据库失败，本次运行不落盘: %v", err)
		store = storage.NewMemoryStore()
	}

	lgr := ledger.New(cfg.DefaultYear())
	if err := lgr.LoadFrom(store); err != nil {
		log.Printf("警告: 加载历史数据失败，从空台账启动: %v", err)
	}

	// 防抖落盘：连续编辑合并为一次写入；失败只告警，内存状态仍然权威
	saver := storage.NewSaver(cfg.SaveDelay(), func() error {
		return lgr.SaveTo(store)
	}, func(err error) {
		log.Printf("警告: 数据落盘失败: %v", err)
	})
	lgr.SetOnDirty(saver.MarkDirty)

	s := &Server{
		router: gin.Default(),
		store:  store,
		ledger: lgr,
		saver:  saver,
	}

	s.setupRoutes(devMode)

	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(devMode bool) {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// API 路由
	apiGroup := s.router.Group("/api")
	{
		api.NewHandler(s.ledger).RegisterRoutes(apiGroup)
	}

	if devMode {
		// 开发模式：代理到前端开发服务器
		s.router.NoRoute(func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, "http://localhost:5173"+c.Request.URL.Path)
		})
	}
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// SaveNow 立即落盘（退出前调用）
func (s *Server) SaveNow() error {
	return s.saver.Flush()
}

// Close 落盘并释放资源
func (s *Server) Close() error {
	s.saver.Stop()
	if err := s.ledger.SaveTo(s.store); err != nil {
		return err
	}
	return s.store.Close()
}

// Ledger 获取台账（用于测试）
func (s *Server) Ledger() *ledger.Ledger {
	return s.ledger
}
