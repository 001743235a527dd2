package templates

// builtinTemplates are the stock App Router files written when no override
// is configured.
var builtinTemplates = map[Role]string{
	RolePage: `// {{path}}

export default function {{Name}}Page() {
  return (
    <></>
  );
}
`,
	RoleLayout: `// {{path}}

interface {{Name}}LayoutProps {
  children: React.ReactNode;
}

export default function {{Name}}Layout({ children }: {{Name}}LayoutProps) {
  return (
  <>
    {children}
  </>);
}
`,
	RoleLoading: `// {{path}}

export default function {{Name}}Loading() {
  return <></>;
}
`,
	RoleError: `'use client';

// {{path}}

interface {{Name}}ErrorProps {
  error: Error;
  reset: () => void;
}

export default function {{Name}}Error({ error, reset }: {{Name}}ErrorProps) {
  return (
    <></>
  );
}
`,
}
