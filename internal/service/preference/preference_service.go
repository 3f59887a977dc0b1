// Package preference 提供用户偏好的键值存储
// 只有两个布尔键：首次安装标记和深色模式开关，持久化在一个独立的
// 键值文件中，与笔记数据互不影响
package preference

import (
	"sync"

	"github.com/spf13/viper"

	apperrors "github.com/snapnote/snapnote/internal/errors"
	"github.com/snapnote/snapnote/internal/logger"
)

// 偏好键名
const (
	// KeyIsNewInstall 首次安装标记，默认true
	KeyIsNewInstall = "is_new_install"
	// KeyIsDarkMode 深色模式开关，默认false
	KeyIsDarkMode = "is_dark_mode"
)

// Preferences 用户偏好快照
type Preferences struct {
	// IsNewInstall 是否首次安装
	IsNewInstall bool `json:"is_new_install"`
	// IsDarkMode 是否深色模式
	IsDarkMode bool `json:"is_dark_mode"`
}

// defaultPreferences 文件缺失或不可读时的回退值
func defaultPreferences() Preferences {
	return Preferences{
		IsNewInstall: true,
		IsDarkMode:   false,
	}
}

// PreferenceService 用户偏好存储服务接口
type PreferenceService interface {
	// Load 读取当前偏好
	// 文件缺失或读取失败时返回默认偏好，这是全系统唯一的
	// 刻意失败回退点，调用方永远拿到可用的值
	Load() Preferences

	// SetDarkMode 持久化深色模式开关
	SetDarkMode(isDarkMode bool) error

	// SetFirstUse 持久化首次安装标记
	SetFirstUse(isNewInstall bool) error
}

// preferenceService 基于viper键值文件的偏好存储实现
type preferenceService struct {
	mu       sync.Mutex
	filePath string
}

// NewPreferenceService 创建用户偏好存储服务实例
// 参数:
//
//	filePath - 偏好键值文件路径
func NewPreferenceService(filePath string) PreferenceService {
	return &preferenceService{filePath: filePath}
}

// newViper 构造绑定偏好文件和默认值的viper实例
func (s *preferenceService) newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(s.filePath)
	v.SetConfigType("yaml")
	v.SetDefault(KeyIsNewInstall, true)
	v.SetDefault(KeyIsDarkMode, false)
	return v
}

// Load 读取当前偏好
func (s *preferenceService) Load() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.newViper()
	if err := v.ReadInConfig(); err != nil {
		// 缺失或损坏的偏好文件映射为默认偏好
		logger.Debugf("偏好文件不可读，使用默认偏好: %v", err)
		return defaultPreferences()
	}

	return Preferences{
		IsNewInstall: v.GetBool(KeyIsNewInstall),
		IsDarkMode:   v.GetBool(KeyIsDarkMode),
	}
}

// SetDarkMode 持久化深色模式开关
func (s *preferenceService) SetDarkMode(isDarkMode bool) error {
	return s.set(KeyIsDarkMode, isDarkMode)
}

// SetFirstUse 持久化首次安装标记
func (s *preferenceService) SetFirstUse(isNewInstall bool) error {
	return s.set(KeyIsNewInstall, isNewInstall)
}

// set 更新单个键并写回偏好文件，未改动的键保持原值
func (s *preferenceService) set(key string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.newViper()
	// 读取失败时从默认值出发覆盖写入
	if err := v.ReadInConfig(); err != nil {
		logger.Debugf("偏好文件不可读，将重建: %v", err)
	}

	v.Set(key, value)
	if err := v.WriteConfigAs(s.filePath); err != nil {
		logger.Errorf("写入偏好失败: key=%s err=%v", key, err)
		return apperrors.WrapByCode(apperrors.ErrPreferenceWriteFailed, err)
	}

	logger.Debugf("偏好已更新: %s=%v", key, value)
	return nil
}
