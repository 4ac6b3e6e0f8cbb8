package provision

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

var vhostTemplate = template.Must(template.New("vhost").Parse(
	`server {
    listen 80;
    server_name {{.ServerName}};
    root {{.Root}}/public;

    index index.php;
    charset utf-8;

    location / {
        try_files $uri $uri/ /index.php?$query_string;
    }

    location ~ \.php$ {
        include snippets/fastcgi-php.conf;
        fastcgi_pass unix:/run/php/php-fpm.sock;
    }

    location ~ /\.(?!well-known).* {
        deny all;
    }

    access_log /var/log/nginx/{{.Project}}.access.log;
    error_log /var/log/nginx/{{.Project}}.error.log;
}
`))

// writeVhost renders the nginx server block, enables it, and reloads
// nginx after a config check.
func (p *Pipeline) writeVhost() error {
	data := struct {
		Project    string
		ServerName string
		Root       string
	}{
		Project:    p.Session.ProjectName,
		ServerName: p.Session.ProjectName + ".local",
		Root:       p.Session.ProjectPath,
	}

	var buf bytes.Buffer
	if err := vhostTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("render vhost: %w", err)
	}

	available := filepath.Join(p.NginxAvailableDir, p.Session.ProjectName)
	if err := os.WriteFile(available, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write vhost: %w", err)
	}

	enabled := filepath.Join(p.NginxEnabledDir, p.Session.ProjectName)
	if _, err := os.Lstat(enabled); os.IsNotExist(err) {
		if err := os.Symlink(available, enabled); err != nil {
			return fmt.Errorf("enable vhost: %w", err)
		}
	}

	if err := p.Runner.Run("nginx", "-t"); err != nil {
		return fmt.Errorf("nginx config check: %w", err)
	}
	return p.Runner.Run("systemctl", "reload", "nginx")
}
