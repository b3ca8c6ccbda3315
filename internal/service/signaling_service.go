package service

import (
	"classroom_portal/internal/config"
	"classroom_portal/internal/model"
	"strings"
	"sync"
)

// ICEServer 对应浏览器使用的 RTCIceServer 结构
type ICEServer struct {
	URLs       interface{} `json:"urls"`
	Username   string      `json:"username,omitempty"`
	Credential string      `json:"credential,omitempty"`
}

type SignalingBootstrap struct {
	WSURL      string         `json:"ws_url"`
	RoomID     string         `json:"room_id"`
	Role       model.UserRole `json:"role"`
	UserID     uint           `json:"user_id"`
	ICEServers []ICEServer    `json:"ice_servers"`
}

// SignalingService 告诉客户端外部信令服务的地址和要使用的 ICE 服务器，
// 本身不保存任何通话状态
type SignalingService struct {
	mu  sync.RWMutex
	cfg config.SignalingConfig
}

func NewSignalingService(cfg config.SignalingConfig) *SignalingService {
	return &SignalingService{cfg: cfg}
}

func (s *SignalingService) UpdateConfig(cfg config.SignalingConfig) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

func (s *SignalingService) ICEServers() []ICEServer {
	s.mu.RLock()
	cfg := s.cfg
	s.mu.RUnlock()

	servers := make([]ICEServer, 0, len(cfg.StunServers)+1)
	for _, u := range cfg.StunServers {
		if u = strings.TrimSpace(u); u != "" {
			servers = append(servers, ICEServer{URLs: u})
		}
	}
	if cfg.TurnURL != "" && cfg.TurnUsername != "" && cfg.TurnPassword != "" {
		var urls []string
		for _, u := range strings.Split(cfg.TurnURL, ",") {
			if u = strings.TrimSpace(u); u != "" {
				urls = append(urls, u)
			}
		}
		if len(urls) > 0 {
			servers = append(servers, ICEServer{
				URLs:       urls,
				Username:   cfg.TurnUsername,
				Credential: cfg.TurnPassword,
			})
		}
	}
	return servers
}

func (s *SignalingService) Bootstrap(access *Access) *SignalingBootstrap {
	s.mu.RLock()
	wsURL := s.cfg.WSURL
	s.mu.RUnlock()
	return &SignalingBootstrap{
		WSURL:      wsURL,
		RoomID:     access.Classroom.Code,
		Role:       access.Role,
		UserID:     access.UserID,
		ICEServers: s.ICEServers(),
	}
}
