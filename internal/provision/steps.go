package provision

import (
	"fmt"

	"laraforge/internal/command"
	"laraforge/internal/prompt"
)

func (p *Pipeline) installBasePackages() error {
	if err := p.Runner.Run("apt-get", "update"); err != nil {
		return err
	}
	return p.Runner.Run("apt-get", "install", "-y",
		"curl", "git", "unzip", "supervisor", "software-properties-common")
}

func (p *Pipeline) installWebServer() error {
	if err := p.Runner.Run("apt-get", "install", "-y", "nginx"); err != nil {
		return err
	}
	return p.Runner.Run("systemctl", "enable", "--now", "nginx")
}

func (p *Pipeline) installPHP() error {
	packages := []string{
		"php-fpm", "php-cli", "php-mysql", "php-mbstring",
		"php-xml", "php-curl", "php-zip", "php-bcmath", "php-gd",
	}
	if p.Session.Drivers.NeedsInMemoryStore {
		packages = append(packages, "php-redis")
	}
	args := append([]string{"install", "-y"}, packages...)
	return p.Runner.Run("apt-get", args...)
}

func (p *Pipeline) installDatabase() error {
	if err := p.Runner.Run("apt-get", "install", "-y", "mysql-server"); err != nil {
		return err
	}
	if err := p.Runner.Run("systemctl", "enable", "--now", "mysql"); err != nil {
		return err
	}

	db := p.Session.ProjectName
	sql := fmt.Sprintf(
		"CREATE DATABASE IF NOT EXISTS `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci;", db)
	return p.Runner.RunWithStdin(sql, "mysql", "-u", "root")
}

func (p *Pipeline) installRedis() error {
	if err := p.Runner.Run("apt-get", "install", "-y", "redis-server"); err != nil {
		return err
	}
	return p.Runner.Run("systemctl", "enable", "--now", "redis-server")
}

// runComposer tries the install strategies in order: a globally installed
// composer, a project-local composer.phar, then installing composer from
// apt and retrying. When every strategy fails the operator chooses between
// degraded continue and abort.
func (p *Pipeline) runComposer() error {
	path := p.Session.ProjectPath
	chain := command.Chain{
		Label: "composer install",
		Attempts: []command.Attempt{
			{Name: "global composer", Argv: []string{
				"composer", "install", "--no-dev", "--optimize-autoloader", "-d", path}},
			{Name: "composer.phar", Argv: []string{
				"php", path + "/composer.phar", "install", "--no-dev", "--optimize-autoloader"}},
			{Name: "apt composer", Argv: []string{
				"apt-get", "install", "-y", "composer"}},
		},
	}

	result := chain.Eval(p.Runner)
	if result.Succeeded == "apt composer" {
		// apt only installed the tool; run the actual install with it.
		if err := p.Runner.Run("composer", "install", "--no-dev", "--optimize-autoloader", "-d", path); err != nil {
			return fmt.Errorf("composer install after apt: %w", err)
		}
		fmt.Fprintf(p.Out, "composer dependencies installed via %s\n", result.Succeeded)
		return nil
	}
	if result.OK() {
		fmt.Fprintf(p.Out, "composer dependencies installed via %s\n", result.Succeeded)
		return nil
	}

	cont, err := p.confirmContinue("composer_degraded",
		"All composer install strategies failed. Continue without dependencies?")
	if err != nil {
		return err
	}
	if !cont {
		return fmt.Errorf("composer install failed: %s", result.Error())
	}
	fmt.Fprintln(p.Out, "continuing without composer dependencies")
	return nil
}

func (p *Pipeline) runNodeBuild() error {
	path := p.Session.ProjectPath
	install := command.Chain{
		Label: "npm install",
		Attempts: []command.Attempt{
			{Name: "npm ci", Argv: []string{"npm", "ci", "--prefix", path}},
			{Name: "npm install", Argv: []string{"npm", "install", "--prefix", path}},
		},
	}
	if result := install.Eval(p.Runner); !result.OK() {
		return fmt.Errorf("npm install failed: %s", result.Error())
	}
	return p.Runner.Run("npm", "run", "build", "--prefix", path)
}

func (p *Pipeline) fixPermissions() error {
	path := p.Session.ProjectPath
	owner := p.Session.ServiceUser + ":" + p.Session.ServiceUser
	if err := p.Runner.Run("chown", "-R", owner, path+"/storage", path+"/bootstrap/cache"); err != nil {
		return err
	}
	return p.Runner.Run("chmod", "-R", "775", path+"/storage", path+"/bootstrap/cache")
}

func (p *Pipeline) storageLink() error {
	return p.Runner.Run("php", p.Session.ProjectPath+"/artisan", "storage:link")
}

func (p *Pipeline) issueTLS() error {
	want, err := p.Source.Confirm("tls_enable", "Issue a TLS certificate with certbot?", false)
	if err != nil {
		return err
	}
	if !want {
		return nil
	}

	domain, err := p.Source.Ask(prompt.Question{
		Key:     "tls_domain",
		Label:   "Domain name",
		Default: p.Session.ProjectName + ".local",
	})
	if err != nil {
		return err
	}

	if err := p.Runner.Run("certbot", "--nginx", "-d", domain, "--non-interactive", "--agree-tos",
		"--register-unsafely-without-email"); err != nil {
		cont, cerr := p.confirmContinue("tls_degraded",
			"Certificate issuance failed. Continue without TLS?")
		if cerr != nil {
			return cerr
		}
		if !cont {
			return fmt.Errorf("certbot: %w", err)
		}
		fmt.Fprintln(p.Out, "continuing without TLS")
	}
	return nil
}
