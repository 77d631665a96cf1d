package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hoshinonyaruko/snake-solo/render"
	"github.com/hoshinonyaruko/snake-solo/session"
	"github.com/hoshinonyaruko/snake-solo/snake"
	"github.com/hoshinonyaruko/snake-solo/structs"
)

// Options configures the HTTP surface.
type Options struct {
	Columns   int    // 按区域开局时的列数
	BlockSize int    // 渲染每格像素
	AutoTick  bool   // 服务端驱动tick时拒绝手动tick
	StaticDir string // 渲染图片输出目录
	SelfPath  string // 对外地址，用于拼接图片url
}

// NewRouter wires every endpoint onto a gin engine.
func NewRouter(m *session.Manager, opts Options) *gin.Engine {
	router := gin.Default()
	// 创建会话
	router.POST("/session", CreateSession(m))
	// 开局
	router.POST("/start", StartGame(m, opts.Columns))
	// 处理玩家改变方向
	router.GET("/update-direction", UpdateDirection(m))
	router.POST("/direction", UpdateDirection(m))
	// 手动驱动
	router.POST("/tick", TickGame(m, opts.AutoTick))
	router.POST("/pause", PauseGame(m))
	router.POST("/resume", ResumeGame(m))
	router.GET("/state", GetState(m))
	// 渲染函数 返回静态地址
	router.GET("/render-map", RenderMapHandler(m, opts))
	router.GET("/render.png", RenderPNGHandler(m, opts.BlockSize))
	// 删除地图
	router.GET("/delete-map", DeleteMapHandler(m))
	// 实时推送
	router.GET("/ws", StreamFrames(m))
	router.Static("/static", opts.StaticDir) // 静态文件服务
	return router
}

func CreateSession(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := m.Create(c.Query("session"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"session_id": s.ID})
	}
}

func StartGame(m *session.Manager, columns int) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Query("session")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: session"})
			return
		}
		width, height, err := gridFromQuery(c, columns)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// 获取&创建会话
		s, err := m.Get(c.Request.Context(), id)
		if errors.Is(err, session.ErrNotFound) {
			s, err = m.Create(id)
		}
		if errors.Is(err, session.ErrInvalidID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			log.Printf("start %s: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to fetch or create session"})
			return
		}

		frame, err := s.Start(width, height)
		var cfgErr *snake.ConfigurationError
		if errors.As(err, &cfgErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": cfgErr.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, frame)
	}
}

// gridFromQuery 读取width/height，或按area_width/area_height换算
func gridFromQuery(c *gin.Context, columns int) (int, int, error) {
	if aw, ah := c.Query("area_width"), c.Query("area_height"); aw != "" || ah != "" {
		areaWidth, err1 := strconv.Atoi(aw)
		areaHeight, err2 := strconv.Atoi(ah)
		if err1 != nil || err2 != nil {
			return 0, 0, fmt.Errorf("area_width and area_height must both be integers")
		}
		grid, err := render.Layout(areaWidth, areaHeight, columns)
		if err != nil {
			return 0, 0, err
		}
		return grid.Width, grid.Height, nil
	}
	width, err1 := strconv.Atoi(c.DefaultQuery("width", "20"))
	height, err2 := strconv.Atoi(c.DefaultQuery("height", "20"))
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("width and height must be integers")
	}
	return width, height, nil
}

func UpdateDirection(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := lookupSession(c, m)
		if !ok {
			return
		}
		// 检查新方向是否合法
		d, err := structs.ParseDirection(c.Query("direction"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.SetDirection(d)
		c.JSON(http.StatusOK, gin.H{"message": "Direction updated successfully"})
	}
}

func TickGame(m *session.Manager, autoTick bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if autoTick {
			c.JSON(http.StatusConflict, gin.H{"error": "Server drives ticks; manual tick disabled"})
			return
		}
		s, ok := lookupSession(c, m)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, s.Tick())
	}
}

func PauseGame(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s, ok := lookupSession(c, m); ok {
			c.JSON(http.StatusOK, s.Pause())
		}
	}
}

func ResumeGame(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s, ok := lookupSession(c, m); ok {
			c.JSON(http.StatusOK, s.Resume())
		}
	}
}

func GetState(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s, ok := lookupSession(c, m); ok {
			c.JSON(http.StatusOK, s.Frame())
		}
	}
}

func RenderMapHandler(m *session.Manager, opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := lookupSession(c, m)
		if !ok {
			return
		}
		// 绘图
		fileName := filepath.Join(opts.StaticDir, s.ID+".png")
		if err := render.SavePNG(fileName, s.Frame(), opts.BlockSize); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		imageUrl := fmt.Sprintf("http://%s/static/%s.png", opts.SelfPath, s.ID)
		c.JSON(http.StatusOK, gin.H{"image_url": imageUrl})
	}
}

func RenderPNGHandler(m *session.Manager, blockSize int) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := lookupSession(c, m)
		if !ok {
			return
		}
		frame := s.Frame()
		if frame.State.Width == 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "No game started"})
			return
		}
		c.Header("Content-Type", "image/png")
		c.Status(http.StatusOK)
		if err := render.EncodePNG(c.Writer, frame, blockSize); err != nil {
			log.Printf("render %s: %v", s.ID, err)
		}
	}
}

func DeleteMapHandler(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Query("session")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: session"})
			return
		}
		err := m.Delete(c.Request.Context(), id)
		if errors.Is(err, session.ErrInvalidID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Session deleted"})
	}
}

// lookupSession 读取session参数并查找会话，失败时已写好响应
func lookupSession(c *gin.Context, m *session.Manager) (*session.Session, bool) {
	id := c.Query("session")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: session"})
		return nil, false
	}
	s, err := m.Get(c.Request.Context(), id)
	if errors.Is(err, session.ErrInvalidID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	if errors.Is(err, session.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	if err != nil {
		log.Printf("lookup %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load session"})
		return nil, false
	}
	return s, true
}
