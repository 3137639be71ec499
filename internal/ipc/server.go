package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"strings"
	"sync"

	"mxvoice/internal/daemon"
	"mxvoice/internal/library"
	"mxvoice/internal/logging"
	"mxvoice/internal/settings"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path. The shutdown
// callback, when non-nil, is invoked after a Stop RPC so the hosting process
// can exit.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger, shutdown func()) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx, shutdown: shutdown}
	if err := rpcServer.RegisterName("MxVoice", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"),
					logging.String(logging.FieldImpact, "IPC clients may fail to connect"),
					logging.String(logging.FieldErrorHint, "check socket permissions and restart the daemon if needed"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "ipc_socket_cleanup_failed"),
			logging.String(logging.FieldImpact, "stale IPC socket may block future starts"),
			logging.String(logging.FieldErrorHint, "remove the socket file manually"))
	}
}

type service struct {
	daemon   *daemon.Daemon
	logger   *slog.Logger
	ctx      context.Context
	shutdown func()
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "ipc"))
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.Version = status.Version
	resp.ActiveProfile = status.ActiveProfile
	resp.Profiles = status.Profiles
	resp.LibraryCount = status.LibraryCount
	resp.DatabasePath = status.DatabasePath
	resp.LockPath = status.LockFilePath
	resp.SocketPath = status.SocketPath
	resp.DeviceMonitor = status.DeviceMonitor
	resp.UpdateChecker = status.UpdateChecker
	resp.PID = os.Getpid()
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Debug("daemon stop requested")
	s.daemon.Stop()
	resp.Stopped = true
	s.log().Info("daemon stopped via IPC",
		logging.String(logging.FieldEventType, "daemon_stop"))
	if s.shutdown != nil {
		s.shutdown()
	}
	return nil
}

func (s *service) SettingGet(req SettingGetRequest, resp *SettingGetResponse) error {
	key := strings.TrimSpace(req.Key)
	if key == "" {
		return errors.New("setting key is required")
	}
	resp.Key = key
	resp.Value = s.daemon.Settings().Get(s.ctx, key)
	resp.Stored = s.daemon.Settings().Has(s.ctx, key)
	resp.Scope = settings.Classify(key).String()
	resp.Profile = s.daemon.Settings().ActiveProfile(s.ctx)
	return nil
}

func (s *service) SettingSet(req SettingSetRequest, resp *SettingSetResponse) error {
	key := strings.TrimSpace(req.Key)
	if key == "" {
		return errors.New("setting key is required")
	}
	resp.OK = s.daemon.Settings().Set(s.ctx, key, req.Value)
	if resp.OK {
		s.log().Info("setting updated via IPC",
			logging.String(logging.FieldSettingKey, key),
			logging.String(logging.FieldEventType, "setting_set"))
	}
	return nil
}

func (s *service) SettingHas(req SettingHasRequest, resp *SettingHasResponse) error {
	key := strings.TrimSpace(req.Key)
	if key == "" {
		return errors.New("setting key is required")
	}
	resp.Present = s.daemon.Settings().Has(s.ctx, key)
	return nil
}

func (s *service) SettingDelete(req SettingDeleteRequest, resp *SettingDeleteResponse) error {
	key := strings.TrimSpace(req.Key)
	if key == "" {
		return errors.New("setting key is required")
	}
	resp.OK = s.daemon.Settings().Delete(s.ctx, key)
	if resp.OK {
		s.log().Info("setting removed via IPC",
			logging.String(logging.FieldSettingKey, key),
			logging.String(logging.FieldEventType, "setting_delete"))
	}
	return nil
}

func (s *service) SettingList(_ SettingListRequest, resp *SettingListResponse) error {
	keys, err := s.daemon.SettingKeys(s.ctx)
	if err != nil {
		return err
	}
	resp.Keys = keys
	return nil
}

func (s *service) ProfileList(_ ProfileListRequest, resp *ProfileListResponse) error {
	profiles, err := s.daemon.Settings().Profiles()
	if err != nil {
		return err
	}
	resp.Profiles = profiles
	resp.Active = s.daemon.Settings().ActiveProfile(s.ctx)
	return nil
}

func (s *service) ProfileShow(req ProfileShowRequest, resp *ProfileShowResponse) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = s.daemon.Settings().ActiveProfile(s.ctx)
	}
	doc, err := s.daemon.Settings().PreferencesFor(name)
	if err != nil {
		return fmt.Errorf("load profile %q: %w", name, err)
	}
	resp.Name = name
	resp.Preferences = doc
	return nil
}

func (s *service) ProfileSwitch(req ProfileSwitchRequest, resp *ProfileSwitchResponse) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return errors.New("profile name is required")
	}
	resp.OK = s.daemon.SwitchProfile(s.ctx, name)
	resp.Active = s.daemon.Settings().ActiveProfile(s.ctx)
	if resp.OK {
		s.log().Info("profile switched via IPC",
			logging.String(logging.FieldProfile, name),
			logging.String(logging.FieldEventType, "profile_switch"))
	}
	return nil
}

func (s *service) EmitEvent(req EmitEventRequest, resp *EmitEventResponse) error {
	id, err := s.daemon.EmitEvent(req.Name, req.Payload)
	if err != nil {
		return err
	}
	resp.EventID = id
	s.log().Debug("event emitted via IPC",
		logging.String(logging.FieldEvent, req.Name),
		logging.String("event_id", id))
	return nil
}

func (s *service) LibraryAdd(req LibraryAddRequest, resp *LibraryAddResponse) error {
	song, err := s.daemon.Library().Add(s.ctx, library.Song{
		Title:    req.Title,
		Artist:   req.Artist,
		Category: req.Category,
		Filename: req.Filename,
		Duration: req.Duration,
	})
	if err != nil {
		return err
	}
	resp.Song = convertSong(song)
	s.log().Info("song added via IPC",
		logging.Int64("song_id", song.ID),
		logging.String(logging.FieldEventType, "library_add"))
	return nil
}

func (s *service) LibraryList(_ LibraryListRequest, resp *LibraryListResponse) error {
	songs, err := s.daemon.Library().List(s.ctx)
	if err != nil {
		return err
	}
	resp.Songs = convertSongs(songs)
	return nil
}

func (s *service) LibrarySearch(req LibrarySearchRequest, resp *LibrarySearchResponse) error {
	songs, err := s.daemon.Library().Search(s.ctx, req.Query)
	if err != nil {
		return err
	}
	resp.Songs = convertSongs(songs)
	return nil
}

func (s *service) LibraryRemove(req LibraryRemoveRequest, resp *LibraryRemoveResponse) error {
	if req.ID <= 0 {
		return fmt.Errorf("invalid song id %d", req.ID)
	}
	if err := s.daemon.Library().Remove(s.ctx, req.ID); err != nil {
		return err
	}
	resp.Removed = true
	return nil
}

func (s *service) CheckUpdate(_ CheckUpdateRequest, resp *CheckUpdateResponse) error {
	release, err := s.daemon.CheckUpdate(s.ctx)
	if err != nil {
		return err
	}
	if release == nil {
		resp.Available = false
		return nil
	}
	resp.Available = true
	resp.Version = release.Version()
	resp.URL = release.HTMLURL
	return nil
}

func (s *service) TestNotification(_ TestNotificationRequest, resp *TestNotificationResponse) error {
	sent, message, err := s.daemon.TestNotification(s.ctx)
	resp.Sent = sent
	resp.Message = message
	return err
}

func convertSong(song *library.Song) Song {
	if song == nil {
		return Song{}
	}
	return Song{
		ID:       song.ID,
		Title:    song.Title,
		Artist:   song.Artist,
		Category: song.Category,
		Filename: song.Filename,
		Duration: song.Duration,
		AddedAt:  song.AddedAt,
	}
}

func convertSongs(songs []*library.Song) []Song {
	out := make([]Song, 0, len(songs))
	for _, song := range songs {
		if song == nil {
			continue
		}
		out = append(out, convertSong(song))
	}
	return out
}
