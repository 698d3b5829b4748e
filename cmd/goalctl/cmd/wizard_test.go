package cmd

import "testing"

func TestResolveAPIURL(t *testing.T) {
	tests := []struct {
		name string
		env  string
		args []string
		want string
	}{
		{name: "default", want: defaultAPIURL},
		{name: "env set after flags are defined", env: "http://env:9000", want: "http://env:9000"},
		{name: "flag wins over env", env: "http://env:9000", args: []string{"--api", "http://flag:7000"}, want: "http://flag:7000"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cmd := WizardCmd()
			// Set after WizardCmd so the value only exists once flags are defined,
			// as with a .env loaded in PersistentPreRun.
			t.Setenv("GOALWIZARD_API", test.env)
			if err := cmd.ParseFlags(test.args); err != nil {
				t.Fatalf("parsing flags: %v", err)
			}

			flagValue, _ := cmd.Flags().GetString("api")
			if got := resolveAPIURL(cmd, flagValue); got != test.want {
				t.Errorf("expected %q, got %q", test.want, got)
			}
		})
	}
}
