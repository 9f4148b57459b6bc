package gmail

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"

	"github.com/amityadav/newsdigest/internal/mail"
	"github.com/amityadav/newsdigest/internal/render"
)

// buildRaw encodes msg as an RFC 2822 message in the base64url form the
// Gmail API expects. HTML bodies get a text/plain alternative.
func buildRaw(msg mail.Message) (string, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")

	if !msg.IsHTML {
		buf.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
		buf.WriteString("Content-Transfer-Encoding: quoted-printable\r\n\r\n")
		if err := writeQP(&buf, msg.Body); err != nil {
			return "", err
		}
		return base64.URLEncoding.EncodeToString(buf.Bytes()), nil
	}

	text, err := render.PlainText(msg.Body)
	if err != nil {
		return "", fmt.Errorf("failed to derive plain text body: %w", err)
	}

	mw := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mw.Boundary())

	parts := []struct {
		contentType string
		body        string
	}{
		{"text/plain; charset=\"UTF-8\"", text},
		{"text/html; charset=\"UTF-8\"", msg.Body},
	}
	for _, p := range parts {
		header := textproto.MIMEHeader{}
		header.Set("Content-Type", p.contentType)
		header.Set("Content-Transfer-Encoding", "quoted-printable")
		w, err := mw.CreatePart(header)
		if err != nil {
			return "", fmt.Errorf("failed to create mime part: %w", err)
		}
		if err := writeQP(w, p.body); err != nil {
			return "", err
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to close mime writer: %w", err)
	}

	return base64.URLEncoding.EncodeToString(buf.Bytes()), nil
}

func writeQP(w io.Writer, body string) error {
	qp := quotedprintable.NewWriter(w)
	if _, err := qp.Write([]byte(body)); err != nil {
		return fmt.Errorf("failed to encode body: %w", err)
	}
	return qp.Close()
}
