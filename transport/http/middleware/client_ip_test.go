package middleware

import (
	"net/http/httptest"
	"rentals/shared/constant"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "forwarded chain", headers: map[string]string{constant.RequestHeaderForwardedFor: "10.0.0.1, 172.16.0.1"}, want: "10.0.0.1"},
		{name: "real ip", headers: map[string]string{constant.RequestHeaderRealIP: " 10.0.0.2 "}, want: "10.0.0.2"},
		{name: "blank forwarded falls through", headers: map[string]string{constant.RequestHeaderForwardedFor: " , 1.1.1.1", constant.RequestHeaderRealIP: "10.0.0.3"}, want: "10.0.0.3"},
		{name: "socket peer", remote: "192.168.1.5:51234", want: "192.168.1.5"},
		{name: "peer without port", remote: "192.168.1.6", want: "192.168.1.6"},
	}

	mw := &appMiddleware{}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/properties", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			if tt.remote != "" {
				req.RemoteAddr = tt.remote
			}

			assert.Equal(t, tt.want, mw.getClientIP(req))
		})
	}
}
