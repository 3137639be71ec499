package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("MxVoice.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop requests the daemon to shut down.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("MxVoice.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SettingGet resolves one setting against the active profile.
func (c *Client) SettingGet(key string) (*SettingGetResponse, error) {
	var resp SettingGetResponse
	if err := c.client.Call("MxVoice.SettingGet", SettingGetRequest{Key: key}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SettingSet persists one setting.
func (c *Client) SettingSet(key string, value any) (*SettingSetResponse, error) {
	var resp SettingSetResponse
	if err := c.client.Call("MxVoice.SettingSet", SettingSetRequest{Key: key, Value: value}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SettingHas checks for an explicitly persisted value.
func (c *Client) SettingHas(key string) (*SettingHasResponse, error) {
	var resp SettingHasResponse
	if err := c.client.Call("MxVoice.SettingHas", SettingHasRequest{Key: key}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SettingDelete removes one setting.
func (c *Client) SettingDelete(key string) (*SettingDeleteResponse, error) {
	var resp SettingDeleteResponse
	if err := c.client.Call("MxVoice.SettingDelete", SettingDeleteRequest{Key: key}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SettingList lists known setting keys.
func (c *Client) SettingList() (*SettingListResponse, error) {
	var resp SettingListResponse
	if err := c.client.Call("MxVoice.SettingList", SettingListRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ProfileList lists profiles and the active one.
func (c *Client) ProfileList() (*ProfileListResponse, error) {
	var resp ProfileListResponse
	if err := c.client.Call("MxVoice.ProfileList", ProfileListRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ProfileShow fetches one profile's preference document.
func (c *Client) ProfileShow(name string) (*ProfileShowResponse, error) {
	var resp ProfileShowResponse
	if err := c.client.Call("MxVoice.ProfileShow", ProfileShowRequest{Name: name}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ProfileSwitch changes the active profile.
func (c *Client) ProfileSwitch(name string) (*ProfileSwitchResponse, error) {
	var resp ProfileSwitchResponse
	if err := c.client.Call("MxVoice.ProfileSwitch", ProfileSwitchRequest{Name: name}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EmitEvent injects an event into the bridge channel.
func (c *Client) EmitEvent(name string, payload any) (*EmitEventResponse, error) {
	var resp EmitEventResponse
	if err := c.client.Call("MxVoice.EmitEvent", EmitEventRequest{Name: name, Payload: payload}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LibraryAdd inserts a song.
func (c *Client) LibraryAdd(req LibraryAddRequest) (*LibraryAddResponse, error) {
	var resp LibraryAddResponse
	if err := c.client.Call("MxVoice.LibraryAdd", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LibraryList lists every song.
func (c *Client) LibraryList() (*LibraryListResponse, error) {
	var resp LibraryListResponse
	if err := c.client.Call("MxVoice.LibraryList", LibraryListRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LibrarySearch runs a case-folded search.
func (c *Client) LibrarySearch(query string) (*LibrarySearchResponse, error) {
	var resp LibrarySearchResponse
	if err := c.client.Call("MxVoice.LibrarySearch", LibrarySearchRequest{Query: query}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LibraryRemove deletes one song by id.
func (c *Client) LibraryRemove(id int64) (*LibraryRemoveResponse, error) {
	var resp LibraryRemoveResponse
	if err := c.client.Call("MxVoice.LibraryRemove", LibraryRemoveRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckUpdate runs one on-demand update check.
func (c *Client) CheckUpdate() (*CheckUpdateResponse, error) {
	var resp CheckUpdateResponse
	if err := c.client.Call("MxVoice.CheckUpdate", CheckUpdateRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestNotification triggers a notification test via the daemon.
func (c *Client) TestNotification() (*TestNotificationResponse, error) {
	var resp TestNotificationResponse
	if err := c.client.Call("MxVoice.TestNotification", TestNotificationRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
