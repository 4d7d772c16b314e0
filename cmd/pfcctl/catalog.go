package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func carreirasCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "carreiras",
		Short: "List the career catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a, cmd); err != nil {
				return err
			}

			carreiras, err := a.platform.Carreiras(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range carreiras {
				fmt.Printf("%4d  %s\n", c.ID, c.Nome)
			}
			return nil
		},
	}
}

func cursosCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cursos",
		Short: "List the course catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a, cmd); err != nil {
				return err
			}

			cursos, err := a.platform.Cursos(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range cursos {
				fmt.Printf("%4d  %s\n", c.ID, c.Nome)
			}
			return nil
		},
	}
}

func habilidadesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "habilidades",
		Short: "List the skill catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a, cmd); err != nil {
				return err
			}

			habilidades, err := a.platform.Habilidades(cmd.Context())
			if err != nil {
				return err
			}
			for _, h := range habilidades {
				fmt.Printf("%4d  %s\n", h.ID, h.Nome)
			}
			return nil
		},
	}
}

func vagasCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "vagas",
		Short: "List the job postings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAuth(a, cmd); err != nil {
				return err
			}

			vagas, err := a.platform.Vagas(cmd.Context())
			if err != nil {
				return err
			}
			for _, v := range vagas {
				fmt.Printf("%4d  %s\n", v.ID, v.Titulo)
			}
			return nil
		},
	}
}

// requireAuth mirrors the route guard in front of every catalog view.
func requireAuth(a *app, cmd *cobra.Command) error {
	decision := a.guard.RequireAuth(cmd.Context())
	if !decision.Admitted() {
		return fmt.Errorf("session %s: run 'pfcctl login'", decision.State)
	}
	return nil
}
