package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const pushbulletBaseURL = "https://api.pushbullet.com"

// Pushbullet pushes note-type messages through the Pushbullet REST API.
type Pushbullet struct {
	Token   string
	BaseURL string
	Client  *http.Client

	retryWait time.Duration
}

func NewPushbullet(token string) *Pushbullet {
	return &Pushbullet{
		Token:     token,
		BaseURL:   pushbulletBaseURL,
		Client:    &http.Client{Timeout: 15 * time.Second},
		retryWait: time.Second,
	}
}

// Send delivers one push, retrying up to 3 times on transport errors and
// non-2xx responses.
func (p *Pushbullet) Send(title, body string) error {
	if p.Token == "" {
		return fmt.Errorf("pushbullet token not configured")
	}
	url := p.BaseURL + "/v2/pushes"

	payload := map[string]any{
		"type":  "note",
		"title": title,
		"body":  body,
	}
	buf, _ := json.Marshal(payload)

	var lastErr error
	for i := 0; i < 3; i++ {
		req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(buf))
		if err != nil {
			return err
		}
		req.Header.Set("Access-Token", p.Token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := p.Client.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(i+1) * p.retryWait)
			continue
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if resp.StatusCode/100 == 2 {
			return nil
		}
		lastErr = fmt.Errorf("pushbullet status=%d", resp.StatusCode)
		time.Sleep(time.Duration(i+1) * p.retryWait)
	}
	return lastErr
}
